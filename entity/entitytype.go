package entity

import "fmt"

// Direction 方位
// 功能：表示车辆驶入路口的一侧，同时也用作驶出方向
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// DirectionCount 方位数量，用作按方位索引的数组长度
const DirectionCount = 4

// Directions 所有方位，顺序即每步处理进口队列的顺序
var Directions = [DirectionCount]Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection 解析方位字符串（north/south/east/west）
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Route 车辆在路口的转向
type Route int

const (
	TurnLeft Route = iota
	TurnRight
	GoStraight
)

// RouteCount 转向数量
const RouteCount = 3

// Routes 所有转向，与随机选择时的下标一一对应
var Routes = [RouteCount]Route{TurnLeft, TurnRight, GoStraight}

func (r Route) String() string {
	switch r {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	case GoStraight:
		return "straight"
	}
	return fmt.Sprintf("Route(%d)", int(r))
}

// ParseRoute 解析转向字符串（left/right/straight）
func ParseRoute(s string) (Route, error) {
	for _, r := range Routes {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown route %q", s)
}

// exitTable 进口方位+转向 -> 出口方位
var exitTable = [DirectionCount][RouteCount]Direction{
	North: {TurnLeft: East, TurnRight: West, GoStraight: South},
	South: {TurnLeft: West, TurnRight: East, GoStraight: North},
	East:  {TurnLeft: North, TurnRight: South, GoStraight: West},
	West:  {TurnLeft: South, TurnRight: North, GoStraight: East},
}

// ExitOf 查询车辆驶出路口后进入的出口方位
// 功能：根据进口方位与转向查表得到唯一的出口方位
// 参数：approach-进口方位，route-转向
// 返回：出口方位
func ExitOf(approach Direction, route Route) Direction {
	return exitTable[approach][route]
}

// Axis 坐标轴
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Heading 行驶方向：沿某一坐标轴的正向或负向
type Heading struct {
	Axis Axis
	Sign int // +1或-1
}

// Progress 沿行驶方向的前进量，越大越靠前
func (h Heading) Progress(x, y int) int {
	if h.Axis == AxisX {
		return h.Sign * x
	}
	return h.Sign * y
}

// Coord 取出行驶轴上的坐标
func (h Heading) Coord(x, y int) int {
	if h.Axis == AxisX {
		return x
	}
	return y
}

// Move 沿行驶方向移动d
func (h Heading) Move(x, y *int, d int) {
	if h.Axis == AxisX {
		*x += h.Sign * d
	} else {
		*y += h.Sign * d
	}
}

// ApproachHeading 进口队列中车辆的行驶方向
// 说明：East进口的车辆从窗口左侧驶入（x增大），West进口从右侧驶入，North从上方，South从下方
func ApproachHeading(approach Direction) Heading {
	switch approach {
	case North:
		return Heading{Axis: AxisY, Sign: +1}
	case South:
		return Heading{Axis: AxisY, Sign: -1}
	case East:
		return Heading{Axis: AxisX, Sign: +1}
	case West:
		return Heading{Axis: AxisX, Sign: -1}
	}
	panic(fmt.Sprintf("bad approach %v", approach))
}

// ExitHeading 驶出队列中车辆的行驶方向
// 说明：同一出口队列中的所有车辆沿同一方向行驶，跟驰判断才有意义
func ExitHeading(exit Direction) Heading {
	switch exit {
	case North:
		return Heading{Axis: AxisY, Sign: -1}
	case South:
		return Heading{Axis: AxisY, Sign: +1}
	case East:
		return Heading{Axis: AxisX, Sign: -1}
	case West:
		return Heading{Axis: AxisX, Sign: +1}
	}
	panic(fmt.Sprintf("bad exit %v", exit))
}

// SetCoord 设置行驶轴上的坐标
func (h Heading) SetCoord(x, y *int, c int) {
	if h.Axis == AxisX {
		*x = c
	} else {
		*y = c
	}
}

// SetCross 设置与行驶轴垂直的坐标（即所在车道）
func (h Heading) SetCross(x, y *int, c int) {
	if h.Axis == AxisX {
		*y = c
	} else {
		*x = c
	}
}
