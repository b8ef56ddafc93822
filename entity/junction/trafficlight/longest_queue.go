// 提供最长排队优先的信号灯控制算法
// 有绿灯时下一步全部复位为红灯，全红时选取排队车辆最多的进口放行（相同时按东>西>北>南）
package trafficlight

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/container"
)

// tieBreakRank 排队数相同时的优先顺序，数值越小越优先
var tieBreakRank = [entity.DirectionCount]int{
	entity.East:  0,
	entity.West:  1,
	entity.North: 2,
	entity.South: 3,
}

// TrafficLight 单个进口的信号灯
type TrafficLight struct {
	State mapv2.LightState
}

// IsGreen 是否为绿灯
func (t TrafficLight) IsGreen() bool {
	return t.State == mapv2.LightState_LIGHT_STATE_GREEN
}

// LongestQueue 最长排队优先信号灯控制器
// 功能：每步根据四个进口的排队车辆数选择放行方向，保证任意时刻至多一个绿灯
// 说明：绿灯只持续一步，下一步必然经过全红复位后再重新选择；没有公平性老化，可能出现饿死
type LongestQueue struct {
	lights [entity.DirectionCount]TrafficLight
}

// NewLongestQueue 创建最长排队优先信号灯控制器，初始全红
func NewLongestQueue() *LongestQueue {
	c := &LongestQueue{}
	for i := range c.lights {
		c.lights[i].State = mapv2.LightState_LIGHT_STATE_RED
	}
	return c
}

// Update 更新阶段，执行一次信号灯选择
// 功能：有绿灯则全部置红，否则按排队数选出下一个绿灯
// 参数：waiting-按方位索引的进口排队车辆数（本步开始时的状态）
// 算法说明：
// 1. 存在绿灯：全部复位为红灯，本步不放行
// 2. 全红：将每个进口按(-排队数, 优先顺序)加入小顶堆
// 3. 弹出堆顶，排队数大于0才置为绿灯，否则保持全红
func (c *LongestQueue) Update(waiting [entity.DirectionCount]int) {
	if _, ok := c.Green(); ok {
		for i := range c.lights {
			c.lights[i].State = mapv2.LightState_LIGHT_STATE_RED
		}
		return
	}
	heap := container.NewPriorityQueue[entity.Direction]()
	for _, d := range entity.Directions {
		// 排队数为整数，优先顺序只在排队数相同时起作用
		heap.Push(d, -float64(waiting[d])+float64(tieBreakRank[d])/float64(entity.DirectionCount))
	}
	heap.Heapify()
	best, _ := heap.HeapPop()
	if waiting[best] > 0 {
		c.lights[best].State = mapv2.LightState_LIGHT_STATE_GREEN
		log.Debugf("green for %v with %d waiting", best, waiting[best])
	}
}

// Get 获取指定进口的信号灯状态
func (c *LongestQueue) Get(d entity.Direction) mapv2.LightState {
	return c.lights[d].State
}

// Green 获取当前绿灯方向
// 返回：绿灯方向，是否存在绿灯
// 说明：发现多个绿灯视为程序错误，直接panic
func (c *LongestQueue) Green() (entity.Direction, bool) {
	found := false
	var green entity.Direction
	for _, d := range entity.Directions {
		if c.lights[d].IsGreen() {
			if found {
				log.Panicf("more than one green light: %v and %v", green, d)
			}
			found = true
			green = d
		}
	}
	return green, found
}

// States 获取全部信号灯状态快照
func (c *LongestQueue) States() [entity.DirectionCount]mapv2.LightState {
	var states [entity.DirectionCount]mapv2.LightState
	for i, l := range c.lights {
		states[i] = l.State
	}
	return states
}
