package vehicle

import (
	"fmt"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
)

// Vehicle 车辆实体
// 功能：记录车辆位置、进口方位、转向与速度，并按信号灯与所处区域推进位置
// 说明：进口方位、转向与速度在创建后不可变，车辆没有加减速模型
type Vehicle struct {
	id       int32
	x, y     int              // 左上角坐标
	route    entity.Route     // 转向
	approach entity.Direction // 进口方位
	speed    int              // 每步位移
}

// New 创建车辆
// 功能：在进口方位的出生点创建一辆车
// 参数：id-车辆ID，approach-进口方位，route-转向，speed-速度
// 返回：新车辆
func New(id int32, approach entity.Direction, route entity.Route, speed int) *Vehicle {
	if speed <= 0 {
		log.Panicf("vehicle %d: non-positive speed %d", id, speed)
	}
	x, y := SpawnPoint(approach)
	return &Vehicle{
		id:       id,
		x:        x,
		y:        y,
		route:    route,
		approach: approach,
		speed:    speed,
	}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id=%d, from=%v, route=%v, pos=(%d,%d), v=%d}", v.id, v.approach, v.route, v.x, v.y, v.speed)
}

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) X() int {
	return v.x
}

func (v *Vehicle) Y() int {
	return v.y
}

// Position 获取车辆左上角坐标
func (v *Vehicle) Position() (x, y int) {
	return v.x, v.y
}

func (v *Vehicle) Route() entity.Route {
	return v.route
}

func (v *Vehicle) Approach() entity.Direction {
	return v.approach
}

// Exit 车辆驶出路口后所在的出口方位
func (v *Vehicle) Exit() entity.Direction {
	return entity.ExitOf(v.approach, v.route)
}

func (v *Vehicle) Speed() int {
	return v.speed
}

// Progress 车辆沿指定行驶方向的前进量
func (v *Vehicle) Progress(h entity.Heading) int {
	return h.Progress(v.x, v.y)
}

// Advance 推进一步
// 功能：根据车辆相对路口中心所处的区域更新位置
// 参数：light-车辆进口方向的信号灯状态
// 算法说明：
// 1. 接近区：前进后仍在停车线之前，无条件前进speed
// 2. 闸口区：前进后仍在路口边界之前，绿灯前进，否则精确停在停车线上
// 3. 转弯区：切换到出口车道，沿出口方向前进speed（直行时车道与方向均不变）
func (v *Vehicle) Advance(light mapv2.LightState) {
	h := entity.ApproachHeading(v.approach)
	approachLimit, gateLimit, stopLine := zoneLimits(h)
	next := h.Coord(v.x, v.y) + h.Sign*v.speed
	switch {
	case before(h, next, approachLimit):
		h.Move(&v.x, &v.y, v.speed)
	case before(h, next, gateLimit):
		if light == mapv2.LightState_LIGHT_STATE_GREEN {
			h.Move(&v.x, &v.y, v.speed)
		} else {
			h.SetCoord(&v.x, &v.y, stopLine)
		}
	default:
		exit := v.Exit()
		out := entity.ExitHeading(exit)
		out.SetCross(&v.x, &v.y, exitLane(exit))
		out.Move(&v.x, &v.y, v.speed)
	}
}

// AtStopLine 车辆是否已到达（或越过）停车线
func (v *Vehicle) AtStopLine() bool {
	h := entity.ApproachHeading(v.approach)
	return !before(h, h.Coord(v.x, v.y), StopLine(v.approach))
}

// OutsideIntersection 车辆是否已离开路口区域
// 说明：路口区域为中心两侧各[-2W, +W]（y方向同理）的包围盒，边界上仍视为在路口内
func (v *Vehicle) OutsideIntersection() bool {
	outsideX := v.x > entity.CenterX+entity.VehicleWidth || v.x < entity.CenterX-2*entity.VehicleWidth
	outsideY := v.y > entity.CenterY+entity.VehicleHeight || v.y < entity.CenterY-2*entity.VehicleHeight
	return outsideX || outsideY
}
