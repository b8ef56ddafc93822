package junction

import (
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/vehicle"
)

// SetSpawnWeights 设置随机生成车辆时的进口与转向权重
// 参数：directionWeights-按北南东西顺序的权重，routeWeights-按左转、右转、直行顺序的权重，为空表示均匀分布
func (i *Intersection) SetSpawnWeights(directionWeights, routeWeights []float64) {
	if len(directionWeights) != 0 && len(directionWeights) != entity.DirectionCount {
		log.Panicf("direction weights must have %d entries, got %v", entity.DirectionCount, directionWeights)
	}
	if len(routeWeights) != 0 && len(routeWeights) != entity.RouteCount {
		log.Panicf("route weights must have %d entries, got %v", entity.RouteCount, routeWeights)
	}
	i.directionWeights = nil
	if len(directionWeights) > 0 {
		i.directionWeights = directionWeights
	}
	i.routeWeights = nil
	if len(routeWeights) > 0 {
		i.routeWeights = routeWeights
	}
}

// CanSpawn 进口是否有空间生成新车
// 说明：队列为空，或队尾车辆距出生点不小于安全距离
func (i *Intersection) CanSpawn(approach entity.Direction) bool {
	gap, ok := i.waiting[approach].gapFromSpawn(approach)
	return !ok || gap >= entity.SafetyDistance
}

// SpawnVehicle 把已创建好的车辆加入其进口排队
// 功能：进口拥堵时拒绝加入
// 参数：v-新车辆，必须位于其进口的出生点
// 返回：是否成功加入
func (i *Intersection) SpawnVehicle(v *vehicle.Vehicle) bool {
	if !i.CanSpawn(v.Approach()) {
		log.Debugf("approach %v congested, reject %v", v.Approach(), v)
		return false
	}
	i.waiting[v.Approach()].list.PushBack(newVehicleNode(v))
	i.spawned++
	if v.ID() >= i.nextID {
		i.nextID = v.ID() + 1
	}
	log.Debugf("spawn %v", v)
	return true
}

// Spawn 在指定进口生成指定转向的车辆，速度随机
func (i *Intersection) Spawn(approach entity.Direction, route entity.Route) bool {
	if !i.CanSpawn(approach) {
		return false
	}
	speed := i.generator.IntRange(entity.MinVelocity, entity.MaxVelocity)
	return i.SpawnVehicle(vehicle.New(i.nextID, approach, route, speed))
}

// spawnFrom 在指定进口生成随机转向的车辆
func (i *Intersection) spawnFrom(approach entity.Direction) bool {
	if !i.CanSpawn(approach) {
		return false
	}
	return i.Spawn(approach, i.randomRoute())
}

func (i *Intersection) SpawnVehicleFromNorth() bool {
	return i.spawnFrom(entity.North)
}

func (i *Intersection) SpawnVehicleFromSouth() bool {
	return i.spawnFrom(entity.South)
}

func (i *Intersection) SpawnVehicleFromEast() bool {
	return i.spawnFrom(entity.East)
}

func (i *Intersection) SpawnVehicleFromWest() bool {
	return i.spawnFrom(entity.West)
}

// SpawnVehicleRandom 随机选择进口生成随机转向的车辆
func (i *Intersection) SpawnVehicleRandom() bool {
	var d entity.Direction
	if i.directionWeights == nil {
		d = entity.Directions[i.generator.Intn(entity.DirectionCount)]
	} else {
		d = entity.Directions[i.generator.DiscreteDistribution(i.directionWeights)]
	}
	return i.spawnFrom(d)
}

func (i *Intersection) randomRoute() entity.Route {
	if i.routeWeights == nil {
		return entity.Routes[i.generator.Intn(entity.RouteCount)]
	}
	return entity.Routes[i.generator.DiscreteDistribution(i.routeWeights)]
}
