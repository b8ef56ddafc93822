package task

import (
	"flag"

	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction"
)

const (
	SelfName = "intersection" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 600, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 心跳日志：定期输出时间与路口统计
// 2. 自动生成：按概率与冷却步数尝试在随机进口生成车辆
func (ctx *Context) prepare() {
	step := ctx.clock.InternalStep
	if step%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) %+v",
			step,
			hour, minute, second,
			ctx.junctionManager.Stats(),
		)
	}

	ctx.junctionManager.Do(func(i *junction.Intersection) {
		if ctx.spawner.trySpawn(step, i) {
			log.Debugf("step %d: spawned", step)
		}
	})
}

// update 更新阶段，每步执行一次
// 功能：推进路口一步，然后输出统计
func (ctx *Context) update() {
	ctx.junctionManager.Update()
	if ctx.recorder.Enabled() {
		ctx.junctionManager.Do(func(i *junction.Intersection) {
			ctx.recorder.Record(ctx.clock.InternalStep, ctx.clock.Time(), i.Stats(), i.TrafficLight().States())
		})
	}
}

// step 与syncer同步当前步的结束
// 返回：是否应当结束模拟
func (ctx *Context) step(last bool) bool {
	if ctx.sidecar == nil {
		return last
	}
	return ctx.sidecar.Step(last)
}

// Run 运行
// 说明：模拟区间为[START_STEP, END_STEP)，每步依次执行准备、更新，随后步数+1
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	// init syncer
	if ctx.sidecar != nil {
		ctx.sidecar.Step(false)
	}
	for {
		ctx.prepare()
		// 通知准备阶段完成
		if ctx.sidecar != nil {
			log.Debugf("step %d: prepare complete and call NotifyStepReady", ctx.clock.InternalStep)
			ctx.sidecar.NotifyStepReady()
		}
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		last := ctx.clock.IsLastStep()
		close := ctx.step(last)
		ctx.clock.Tick()
		if close || last || ctx.closed.Load() {
			break
		}
	}
	log.Infof("engine complete: %+v", ctx.junctionManager.Stats())
	ctx.Close()
}
