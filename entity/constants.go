package entity

// 几何与运动常量
// 说明：坐标系原点位于窗口左上角，x向右、y向下增长，单位为仿真坐标单位
const (
	WindowWidth  = 800 // 窗口宽度
	WindowHeight = 800 // 窗口高度

	VehicleWidth  = 20 // 车辆宽度（x方向尺寸）
	VehicleHeight = 20 // 车辆高度（y方向尺寸）

	MinVelocity = 2 // 车速下限（包含）
	MaxVelocity = 3 // 车速上限（不包含）

	SafetyDistance = 30 // 同一队列中前后车的最小间距

	FPS = 60 // 每秒模拟步数

	CenterX = WindowWidth / 2  // 路口中心x坐标
	CenterY = WindowHeight / 2 // 路口中心y坐标
)
