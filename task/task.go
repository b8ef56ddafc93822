package task

import (
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/intersection-sim/clock"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction"
	"github.com/tsinghua-fib-lab/intersection-sim/output"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：管理时钟、路口、自动生成、输出与sidecar
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下相关调用，包括与syncer、其他服务的交互
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
	// 是否由本任务启动sidecar服务
	serving bool

	// 路口管理器
	junctionManager *junction.Manager
	// 自动生成车辆
	spawner *spawner
	// 统计输出
	recorder *output.Recorder

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：
//   - job: 任务名称
//   - rc: 运行时配置
//   - sidecar: sidecar实例，为nil时不提供RPC服务也不与syncer同步
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建时钟与随机数引擎（路口与自动生成各使用一个，互不干扰）
// 2. 创建路口管理器、自动生成器与统计输出
// 3. 注册RPC服务到sidecar
// 4. 启动sidecar服务（如果需要）
func NewContext(
	job string,
	rc *config.RuntimeConfig,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) *Context {
	ctx := &Context{
		job:            job,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		runtimeConfig:  rc,
	}
	ctx.clock = clock.New(rc.C.Step)

	ctx.junctionManager = junction.NewManager(randengine.New(rc.C.Seed))
	ctx.junctionManager.Do(func(i *junction.Intersection) {
		i.SetSpawnWeights(rc.Spawn.DirectionWeights, rc.Spawn.RouteWeights)
	})
	ctx.spawner = newSpawner(rc.Spawn, randengine.New(rc.C.Seed+1))
	ctx.recorder = output.New(job, rc.Output)

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		ctx.junctionManager.Register(ctx.sidecar)

		// sidecar协程，用于提供gRPC服务
		if startSidecarServe {
			ctx.serving = true
			go func() {
				err := ctx.sidecar.Serve()
				if err != nil {
					log.Panicf("failed to serve: %v", err)
				}
				ctx.sidecarCloseCh <- struct{}{}
			}()
		}
	}

	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) JunctionManager() *junction.Manager {
	return ctx.junctionManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Init() {
	ctx.clock.Init()
	rc := ctx.runtimeConfig
	log.Infof("Step: [%d, %d), interval %.4fs", ctx.clock.START_STEP, ctx.clock.END_STEP, ctx.clock.DT)
	log.Infof("Spawn: p=%v cooldown=%d", rc.Spawn.Probability, rc.Spawn.Cooldown)
}

// Stop 请求主循环在当前步结束后退出
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}

func (ctx *Context) Close() {
	ctx.recorder.Close()
	if ctx.sidecar == nil {
		return
	}
	ctx.sidecar.Close()
	if ctx.serving {
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
}
