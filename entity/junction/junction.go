package junction

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

// Stats 路口统计快照
type Stats struct {
	Waiting        int `json:"waiting"`         // 各进口排队车辆总数
	InIntersection int `json:"in_intersection"` // 路口内车辆数（0或1）
	Departed       int `json:"departed"`        // 各出口驶出队列车辆总数
	TotalProcessed int `json:"total_processed"` // 累计通过路口的车辆数
	ElapsedTicks   int `json:"elapsed_ticks"`   // 已模拟步数
}

// Intersection 四路交叉口
// 功能：持有四个进口排队、路口内单车位、四个驶出队列与四个信号灯，每步推进全部车辆与信控
// 说明：每辆车在任意时刻只属于一个容器（进口排队、路口车位或驶出队列），在容器间移动即所有权转移
type Intersection struct {
	waiting        [entity.DirectionCount]*queue // 按进口方位索引的排队
	inIntersection *vehicleNode                  // 路口内车位，至多一辆车
	departed       [entity.DirectionCount]*queue // 按出口方位索引的驶出队列
	trafficLight   ITrafficLight                 // 信号灯模块

	totalProcessed int   // 累计通过路口的车辆数
	elapsedTicks   int   // 已模拟步数
	spawned        int   // 累计成功生成的车辆数
	nextID         int32 // 下一辆车的ID

	generator        *randengine.Engine
	directionWeights []float64 // 随机生成车辆时的进口权重，nil为均匀
	routeWeights     []float64 // 随机生成车辆时的转向权重，nil为均匀
}

// New 创建路口
// 功能：创建全红、无车、计数为0的路口
// 参数：generator-随机数引擎，用于随机选择转向、速度与进口
// 返回：初始化完成的路口实例
func New(generator *randengine.Engine) *Intersection {
	i := &Intersection{
		trafficLight: trafficlight.NewLongestQueue(),
		generator:    generator,
	}
	for _, d := range entity.Directions {
		i.waiting[d] = newQueue(fmt.Sprintf("waiting %v", d), entity.ApproachHeading(d))
		i.departed[d] = newQueue(fmt.Sprintf("departed %v", d), entity.ExitHeading(d))
	}
	return i
}

// Update 推进一步
// 功能：按固定顺序完成一步完整的状态转移
// 算法说明：
// 1. 根据本步开始时的排队数更新信号灯
// 2. 推进路口内车辆，离开路口区域则转入对应出口的驶出队列
// 3. 跟驰推进四个驶出队列
// 4. 按北、南、东、西的顺序处理进口排队：先尝试放行队首进入路口，再跟驰推进其余车辆
// 5. 步数+1，检查不变量
func (i *Intersection) Update() {
	i.updateTrafficLights()
	i.processIntersectionVehicle()
	i.processDepartedVehicles()
	i.processWaitingVehicles()
	i.elapsedTicks++
	i.checkInvariants()
}

func (i *Intersection) updateTrafficLights() {
	var counts [entity.DirectionCount]int
	for _, d := range entity.Directions {
		counts[d] = i.waiting[d].list.Len()
	}
	i.trafficLight.Update(counts)
}

// processIntersectionVehicle 推进路口内车辆并检测驶出
// 说明：路口内车辆已获准通行，总是按绿灯推进
func (i *Intersection) processIntersectionVehicle() {
	node := i.inIntersection
	if node == nil {
		return
	}
	v := node.Value
	v.Advance(mapv2.LightState_LIGHT_STATE_GREEN)
	if !v.OutsideIntersection() {
		return
	}
	i.inIntersection = nil
	i.totalProcessed++
	exit := v.Exit()
	i.departed[exit].list.PushBack(node)
	log.Debugf("%v left the intersection to %v", v, exit)
}

// processDepartedVehicles 跟驰推进驶出队列
// 说明：四个驶出队列互不相干，并行处理
func (i *Intersection) processDepartedVehicles() {
	parallel.GoFor(i.departed[:], func(q *queue) {
		q.follow(mapv2.LightState_LIGHT_STATE_GREEN, nil)
	})
}

// processWaitingVehicles 处理四个进口的排队车辆
func (i *Intersection) processWaitingVehicles() {
	for _, d := range entity.Directions {
		q := i.waiting[d]
		light := i.trafficLight.Get(d)
		if first := q.list.First(); first != nil &&
			first.Value.AtStopLine() &&
			light == mapv2.LightState_LIGHT_STATE_GREEN &&
			i.inIntersection == nil {
			i.admit(q)
		}
		// 已到停车线的队首原地等待放行
		q.follow(light, (*vehicle.Vehicle).AtStopLine)
	}
}

// admit 放行队首车辆进入路口
func (i *Intersection) admit(q *queue) {
	if i.inIntersection != nil {
		log.Panicf("admit %v while %v is still in the intersection", q.list.First().Value, i.inIntersection.Value)
	}
	node := q.list.PopFront()
	i.inIntersection = node
	log.Debugf("%v entered the intersection", node.Value)
}

// checkInvariants 检查不变量，违反即为程序错误
// 说明：至多一个绿灯（由信号灯模块检查）、车辆守恒、驶出队列车辆数与累计通过数一致
func (i *Intersection) checkInvariants() {
	i.trafficLight.Green()
	s := i.Stats()
	if total := s.Waiting + s.InIntersection + s.Departed; total != i.spawned {
		log.Panicf("vehicle conservation broken: %d tracked, %d spawned (%+v)", total, i.spawned, s)
	}
	if s.Departed != s.TotalProcessed {
		log.Panicf("departed %d != processed %d", s.Departed, s.TotalProcessed)
	}
}

// Stats 获取统计快照
func (i *Intersection) Stats() Stats {
	count := func(q *queue) int { return q.list.Len() }
	inIntersection := 0
	if i.inIntersection != nil {
		inIntersection = 1
	}
	return Stats{
		Waiting:        lo.SumBy(i.waiting[:], count),
		InIntersection: inIntersection,
		Departed:       lo.SumBy(i.departed[:], count),
		TotalProcessed: i.totalProcessed,
		ElapsedTicks:   i.elapsedTicks,
	}
}

// Waiting 获取进口排队车辆（从停车线往后）
func (i *Intersection) Waiting(approach entity.Direction) []*vehicle.Vehicle {
	return i.waiting[approach].list.Values()
}

// InIntersection 获取路口内车辆，没有则返回nil
func (i *Intersection) InIntersection() *vehicle.Vehicle {
	if i.inIntersection == nil {
		return nil
	}
	return i.inIntersection.Value
}

// Departed 获取驶出队列车辆（从最前往后）
func (i *Intersection) Departed(exit entity.Direction) []*vehicle.Vehicle {
	return i.departed[exit].list.Values()
}

// Light 获取进口信号灯状态
func (i *Intersection) Light(approach entity.Direction) mapv2.LightState {
	return i.trafficLight.Get(approach)
}

// TrafficLight 获取信控读取接口
func (i *Intersection) TrafficLight() ITrafficLightGetter {
	return i.trafficLight
}
