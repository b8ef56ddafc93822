package junction

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

func newTestIntersection(seed uint64) *Intersection {
	return New(randengine.New(seed))
}

func greenCount(i *Intersection) int {
	n := 0
	for _, s := range i.TrafficLight().States() {
		if s == mapv2.LightState_LIGHT_STATE_GREEN {
			n++
		}
	}
	return n
}

func TestNewIntersection(t *testing.T) {
	i := newTestIntersection(0)
	assert.Equal(t, Stats{}, i.Stats())
	assert.Nil(t, i.InIntersection())
	for _, d := range entity.Directions {
		assert.Equal(t, mapv2.LightState_LIGHT_STATE_RED, i.Light(d))
		assert.Empty(t, i.Waiting(d))
		assert.Empty(t, i.Departed(d))
	}
}

func TestEmptyUpdate(t *testing.T) {
	i := newTestIntersection(0)
	for n := 0; n < 10; n++ {
		i.Update()
	}
	assert.Equal(t, Stats{ElapsedTicks: 10}, i.Stats())
	assert.Zero(t, greenCount(i))
}

func TestNorthStraightDepartsSouth(t *testing.T) {
	i := newTestIntersection(1)
	require.True(t, i.Spawn(entity.North, entity.GoStraight))
	v := i.Waiting(entity.North)[0]

	for n := 0; n < 1000 && len(i.Departed(entity.South)) == 0; n++ {
		i.Update()
		if i.InIntersection() != nil {
			assert.Same(t, v, i.InIntersection())
		}
	}
	require.Len(t, i.Departed(entity.South), 1)
	assert.Same(t, v, i.Departed(entity.South)[0])
	assert.Equal(t, 1, i.Stats().TotalProcessed)
	assert.Equal(t, 1, i.Stats().Departed)
	assert.Zero(t, i.Stats().Waiting)
	assert.Nil(t, i.InIntersection())
	for _, d := range []entity.Direction{entity.North, entity.East, entity.West} {
		assert.Empty(t, i.Departed(d))
	}
}

func TestEveryRouteDepartsToTableExit(t *testing.T) {
	for _, approach := range entity.Directions {
		for _, route := range entity.Routes {
			i := newTestIntersection(2)
			require.True(t, i.Spawn(approach, route))
			exit := entity.ExitOf(approach, route)
			for n := 0; n < 1000 && i.Stats().TotalProcessed == 0; n++ {
				i.Update()
			}
			assert.Len(t, i.Departed(exit), 1, "%v+%v", approach, route)
		}
	}
}

func TestAdmissionOnlyOnGreen(t *testing.T) {
	i := newTestIntersection(3)
	require.True(t, i.Spawn(entity.West, entity.TurnLeft))
	admitted := false
	for n := 0; n < 1000 && !admitted; n++ {
		i.Update()
		if i.InIntersection() != nil {
			admitted = true
			assert.Equal(t, mapv2.LightState_LIGHT_STATE_GREEN, i.Light(entity.West))
			assert.Equal(t, vehicle.StopLine(entity.West), i.InIntersection().X())
		}
	}
	assert.True(t, admitted)
}

func TestSpawnRejectedWhenCongested(t *testing.T) {
	i := newTestIntersection(4)
	require.True(t, i.SpawnVehicle(vehicle.New(1, entity.East, entity.GoStraight, 2)))
	assert.False(t, i.SpawnVehicleFromEast())
	assert.Len(t, i.Waiting(entity.East), 1)
	assert.Equal(t, 1, i.Stats().Waiting)

	// 队尾离开出生点30之后才允许生成
	for n := 0; n < 14; n++ {
		i.Update()
	}
	assert.Equal(t, 28, i.Waiting(entity.East)[0].X())
	assert.False(t, i.SpawnVehicleFromEast())
	i.Update()
	assert.True(t, i.SpawnVehicleFromEast())
	assert.Len(t, i.Waiting(entity.East), 2)

	// 其他进口不受影响
	assert.True(t, i.SpawnVehicleFromWest())
	assert.True(t, i.SpawnVehicleFromNorth())
	assert.True(t, i.SpawnVehicleFromSouth())
}

func TestCarFollowingUsesPreTickFront(t *testing.T) {
	i := newTestIntersection(5)
	lead := vehicle.New(1, entity.East, entity.GoStraight, 3)
	require.True(t, i.SpawnVehicle(lead))
	for n := 0; n < 10; n++ {
		i.Update()
	}
	require.Equal(t, 30, lead.X())

	follower := vehicle.New(2, entity.East, entity.GoStraight, 3)
	require.True(t, i.SpawnVehicle(follower))

	// 前车本步开始时在30，后车前进到3会使间距只剩27，必须等待
	i.Update()
	assert.Equal(t, 33, lead.X())
	assert.Equal(t, 0, follower.X())

	// 前车本步开始时在33，后车前进到3间距恰为30，允许前进
	i.Update()
	assert.Equal(t, 36, lead.X())
	assert.Equal(t, 3, follower.X())
}

func TestQueueAtStopLine(t *testing.T) {
	i := newTestIntersection(6)
	// 持续在南进口生成车辆，使其在停车线前排队
	for n := 0; n < 5; n++ {
		require.True(t, i.Spawn(entity.South, entity.GoStraight))
		for k := 0; k < 20; k++ {
			i.Update()
		}
	}
	for n := 0; n < 400; n++ {
		i.Update()
		waiting := i.Waiting(entity.South)
		for k := 1; k < len(waiting); k++ {
			gap := waiting[k].Y() - waiting[k-1].Y()
			assert.GreaterOrEqual(t, gap, entity.SafetyDistance)
		}
	}
}

func TestInvariantsUnderRandomLoad(t *testing.T) {
	i := newTestIntersection(42)
	g := randengine.New(43)
	spawned := 0
	for n := 0; n < 5000; n++ {
		before := i.Stats()
		ok := i.SpawnVehicleRandom()
		after := i.Stats()
		total := func(s Stats) int { return s.Waiting + s.InIntersection + s.Departed }
		if ok {
			spawned++
			assert.Equal(t, total(before)+1, total(after))
		} else {
			assert.Equal(t, total(before), total(after))
		}
		if g.PTrue(0.7) {
			i.Update()
		}
		s := i.Stats()
		assert.LessOrEqual(t, greenCount(i), 1)
		assert.LessOrEqual(t, s.InIntersection, 1)
		assert.Equal(t, spawned, s.Waiting+s.InIntersection+s.Departed)
	}
	assert.Greater(t, spawned, 0)

	// 停止生成后所有车辆最终都进入驶出队列
	for n := 0; n < 200000 && i.Stats().Departed < spawned; n++ {
		i.Update()
	}
	s := i.Stats()
	assert.Equal(t, spawned, s.Departed)
	assert.Equal(t, spawned, s.TotalProcessed)
	assert.Zero(t, s.Waiting)
	assert.Zero(t, s.InIntersection)
}

func TestConservationBrokenPanics(t *testing.T) {
	i := newTestIntersection(7)
	require.True(t, i.Spawn(entity.North, entity.TurnLeft))
	i.waiting[entity.North].list.PopFront()
	assert.Panics(t, func() { i.Update() })
}

func TestAdmitIntoOccupiedSlotPanics(t *testing.T) {
	i := newTestIntersection(8)
	require.True(t, i.Spawn(entity.North, entity.TurnLeft))
	require.True(t, i.Spawn(entity.South, entity.TurnLeft))
	i.admit(i.waiting[entity.North])
	assert.Panics(t, func() { i.admit(i.waiting[entity.South]) })
}

func TestSpawnWeights(t *testing.T) {
	i := newTestIntersection(9)
	i.SetSpawnWeights([]float64{0, 0, 1, 0}, []float64{0, 1, 0})
	assert.True(t, i.SpawnVehicleRandom())
	waiting := i.Waiting(entity.East)
	require.Len(t, waiting, 1)
	assert.Equal(t, entity.TurnRight, waiting[0].Route())
	assert.Panics(t, func() { i.SetSpawnWeights([]float64{1}, nil) })
}
