package vehicle

import "github.com/tsinghua-fib-lab/intersection-sim/entity"

// axisGeometry 返回行驶轴上的路口中心坐标与车辆尺寸
func axisGeometry(h entity.Heading) (center, size int) {
	if h.Axis == entity.AxisX {
		return entity.CenterX, entity.VehicleWidth
	}
	return entity.CenterY, entity.VehicleHeight
}

// zoneLimits 计算进口方向上三个区域的边界
// 功能：根据行驶方向给出接近区上界、闸口区上界和停车线坐标
// 参数：h-进口行驶方向
// 返回：approach-前进后仍在此之前则处于接近区，gate-前进后仍在此之前则处于闸口区，stop-停车线
// 说明：坐标为车辆左上角，因此正向行驶与反向行驶的边界不对称（分别为中心-2W/-W与中心+2W/+0）
func zoneLimits(h entity.Heading) (approach, gate, stop int) {
	c, w := axisGeometry(h)
	if h.Sign > 0 {
		return c - 2*w, c - w, c - 2*w
	}
	return c + 2*w, c, c + w
}

// before 沿行驶方向a是否严格位于b之前
func before(h entity.Heading, a, b int) bool {
	return h.Sign*a < h.Sign*b
}

// exitLane 出口车道在垂直于行驶轴方向上的坐标
// 说明：直行车辆的进口车道与出口车道重合，转弯车辆进入转弯区后立即切换到该车道
func exitLane(exit entity.Direction) int {
	switch exit {
	case entity.North:
		return entity.CenterX
	case entity.South:
		return entity.CenterX - entity.VehicleWidth
	case entity.East:
		return entity.CenterY - entity.VehicleHeight
	default:
		return entity.CenterY
	}
}

// SpawnPoint 进口方位上新车辆的出生位置
func SpawnPoint(approach entity.Direction) (x, y int) {
	switch approach {
	case entity.North:
		return entity.WindowWidth/2 - entity.VehicleWidth, 0
	case entity.South:
		return entity.WindowWidth / 2, entity.WindowHeight - entity.VehicleHeight
	case entity.East:
		return 0, entity.WindowHeight / 2
	default:
		return entity.WindowWidth - entity.VehicleWidth, entity.WindowHeight/2 - entity.VehicleHeight
	}
}

// StopLine 进口方位的停车线坐标（行驶轴上）
func StopLine(approach entity.Direction) int {
	_, _, stop := zoneLimits(entity.ApproachHeading(approach))
	return stop
}
