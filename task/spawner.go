package task

import (
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

// spawner 自动生成车辆
// 功能：每步以给定概率尝试随机生成一辆车，两次成功生成之间至少间隔cooldown步
type spawner struct {
	probability float64
	cooldown    int32
	generator   *randengine.Engine

	lastSpawn int32 // 上一次成功生成的步数
	spawned   bool  // 是否成功生成过
}

func newSpawner(c config.Spawn, generator *randengine.Engine) *spawner {
	return &spawner{
		probability: c.Probability,
		cooldown:    c.Cooldown,
		generator:   generator,
	}
}

// trySpawn 在第step步尝试生成车辆
// 返回：是否成功生成
func (s *spawner) trySpawn(step int32, i *junction.Intersection) bool {
	if s.probability <= 0 {
		return false
	}
	if s.spawned && step-s.lastSpawn < s.cooldown {
		return false
	}
	if !s.generator.PTrue(s.probability) {
		return false
	}
	if !i.SpawnVehicleRandom() {
		return false
	}
	s.lastSpawn = step
	s.spawned = true
	return true
}
