package junction

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
)

// 依赖倒置，表达路口对信号灯实现的接口需求

// 给交通参与者与展示层提供的信控读取接口
type ITrafficLightGetter interface {
	// 指定进口的灯色
	Get(d entity.Direction) mapv2.LightState
	// 当前绿灯方向
	Green() (entity.Direction, bool)
	// 全部灯色快照
	States() [entity.DirectionCount]mapv2.LightState
}

// 信号灯接口
type ITrafficLight interface {
	ITrafficLightGetter
	// 根据本步开始时各进口排队数更新信控结果
	Update(waiting [entity.DirectionCount]int)
}
