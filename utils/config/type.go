package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：interval为0时使用默认的1/FPS秒
type ControlStep struct {
	Start    int32   `yaml:"start"`              // 开始步数
	Total    int32   `yaml:"total"`              // 总步数
	Interval float64 `yaml:"interval,omitempty"` // 每步的时间间隔
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
	Seed uint64      `yaml:"seed,omitempty"` // 随机数种子
}

// Spawn 自动生成车辆的配置
// 功能：控制每步生成车辆的概率、冷却步数与进口、转向的分布
type Spawn struct {
	Probability      float64   `yaml:"probability"`                 // 每步尝试生成车辆的概率，0表示不自动生成
	Cooldown         int32     `yaml:"cooldown,omitempty"`          // 两次成功生成之间至少间隔的步数
	DirectionWeights []float64 `yaml:"direction_weights,omitempty"` // 北南东西四个进口的权重，为空表示均匀
	RouteWeights     []float64 `yaml:"route_weights,omitempty"`     // 左转、右转、直行的权重，为空表示均匀
}

// Output 统计输出配置
// 说明：uri为空时不输出
type Output struct {
	URI      string `yaml:"uri"`                // MongoDB连接字符串
	DB       string `yaml:"db,omitempty"`       // 数据库名
	Col      string `yaml:"col,omitempty"`      // 集合名
	Interval int32  `yaml:"interval,omitempty"` // 输出间隔步数
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control Control `yaml:"control"`          // 模拟过程控制
	Spawn   Spawn   `yaml:"spawn"`            // 车辆生成
	Output  Output  `yaml:"output,omitempty"` // 统计输出
}

// GetDb 获取数据库名
func (o Output) GetDb() string {
	return o.DB
}

// GetColl 获取集合名
func (o Output) GetColl() string {
	return o.Col
}
