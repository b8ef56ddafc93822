package junction

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/container"
)

type vehicleNode = container.ListNode[*vehicle.Vehicle]

// queue 沿同一方向行驶、不换道的车队（进口排队或驶出队列）
type queue struct {
	list    *container.List[*vehicle.Vehicle]
	heading entity.Heading
}

func newQueue(id string, heading entity.Heading) *queue {
	return &queue{
		list:    container.NewList[*vehicle.Vehicle](id),
		heading: heading,
	}
}

// snapshot 把每辆车本步开始时的前进量写入节点键值
func (q *queue) snapshot() {
	for node := q.list.First(); node != nil; node = node.Next() {
		node.S = node.Value.Progress(q.heading)
	}
}

// follow 跟驰推进整个车队
// 功能：队首车辆按信号灯推进，后车只有在前进后仍与前车保持安全距离时才推进
// 参数：light-传给车辆的灯色，holdLead-返回true时队首本步不动（nil表示队首总是推进）
// 算法说明：
// 1. 记录所有车辆本步开始时的前进量
// 2. 队首车辆直接推进（除非被holdLead拦下）
// 3. 后车以前车本步开始时的位置为参照：前车快照-(自身快照+速度) >= 安全距离才推进
// 说明：参照前车的旧位置而不是推进后的新位置，结果与遍历顺序无关，且前车只会前进，间距不会因此缩小
func (q *queue) follow(light mapv2.LightState, holdLead func(v *vehicle.Vehicle) bool) {
	q.snapshot()
	for node := q.list.First(); node != nil; node = node.Next() {
		v := node.Value
		if front := node.Prev(); front != nil {
			if front.S-(node.S+v.Speed()) < entity.SafetyDistance {
				continue
			}
		} else if holdLead != nil && holdLead(v) {
			continue
		}
		v.Advance(light)
	}
}

// gapFromSpawn 队尾车辆距出生点的距离，队列为空时ok为false
func (q *queue) gapFromSpawn(approach entity.Direction) (gap int, ok bool) {
	last := q.list.Last()
	if last == nil {
		return 0, false
	}
	sx, sy := vehicle.SpawnPoint(approach)
	return last.Value.Progress(q.heading) - q.heading.Progress(sx, sy), true
}

func newVehicleNode(v *vehicle.Vehicle) *vehicleNode {
	return container.NewNode(v)
}
