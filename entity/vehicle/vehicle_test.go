package vehicle

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
)

const (
	green = mapv2.LightState_LIGHT_STATE_GREEN
	red   = mapv2.LightState_LIGHT_STATE_RED
)

func TestSpawnPoint(t *testing.T) {
	v := New(1, entity.East, entity.GoStraight, 2)
	x, y := v.Position()
	assert.Equal(t, 0, x)
	assert.Equal(t, 400, y)

	v = New(2, entity.North, entity.GoStraight, 2)
	assert.Equal(t, 380, v.X())
	assert.Equal(t, 0, v.Y())

	v = New(3, entity.South, entity.GoStraight, 2)
	assert.Equal(t, 400, v.X())
	assert.Equal(t, 780, v.Y())

	v = New(4, entity.West, entity.GoStraight, 2)
	assert.Equal(t, 780, v.X())
	assert.Equal(t, 380, v.Y())
}

func TestStopAtRedLight(t *testing.T) {
	stops := map[entity.Direction]int{
		entity.North: 360,
		entity.South: 420,
		entity.East:  360,
		entity.West:  420,
	}
	for approach, stop := range stops {
		for _, speed := range []int{2, 3, 7} {
			v := New(1, approach, entity.GoStraight, speed)
			for i := 0; i < 1000; i++ {
				v.Advance(red)
			}
			h := entity.ApproachHeading(approach)
			assert.Equal(t, stop, h.Coord(v.x, v.y), "%v speed %d", approach, speed)
			assert.True(t, v.AtStopLine())
			assert.False(t, v.OutsideIntersection())
		}
	}
}

func TestGateZoneSnap(t *testing.T) {
	// 闸口区内红灯：精确停在停车线，而不是原地不动
	v := New(1, entity.East, entity.TurnLeft, 3)
	v.x = 359
	v.Advance(red)
	assert.Equal(t, 360, v.x)

	v = New(2, entity.West, entity.TurnLeft, 3)
	v.x = 422
	v.Advance(red)
	assert.Equal(t, 420, v.x)

	// 绿灯直接前进
	v = New(3, entity.West, entity.TurnLeft, 3)
	v.x = 422
	v.Advance(green)
	assert.Equal(t, 419, v.x)
}

func TestApproachZoneIgnoresLight(t *testing.T) {
	v := New(1, entity.South, entity.GoStraight, 2)
	v.Advance(red)
	assert.Equal(t, 778, v.y)
	assert.False(t, v.AtStopLine())
}

func TestTurnLane(t *testing.T) {
	v := New(1, entity.East, entity.TurnLeft, 2)
	v.x = 378
	v.Advance(green)
	assert.Equal(t, 400, v.x)
	assert.Equal(t, 398, v.y)
	v.Advance(green)
	assert.Equal(t, 400, v.x)
	assert.Equal(t, 396, v.y)

	v = New(2, entity.East, entity.TurnRight, 2)
	v.x = 378
	v.Advance(green)
	assert.Equal(t, 380, v.x)
	assert.Equal(t, 402, v.y)
}

func TestCrossing(t *testing.T) {
	for _, approach := range entity.Directions {
		for _, route := range entity.Routes {
			v := New(1, approach, route, 2)
			for !v.AtStopLine() {
				v.Advance(red)
			}
			steps := 0
			for !v.OutsideIntersection() {
				v.Advance(green)
				steps++
				require.Less(t, steps, 100, "%v+%v never left the intersection", approach, route)
			}
			// 驶出后沿出口方向、在出口车道上匀速前进
			exit := entity.ExitHeading(v.Exit())
			p0 := v.Progress(exit)
			cx, cy := v.Position()
			v.Advance(green)
			assert.Equal(t, p0+2, v.Progress(exit), "%v+%v", approach, route)
			if exit.Axis == entity.AxisX {
				assert.Equal(t, cy, v.y)
				assert.Equal(t, exitLane(v.Exit()), v.y)
			} else {
				assert.Equal(t, cx, v.x)
				assert.Equal(t, exitLane(v.Exit()), v.x)
			}
		}
	}
}

func TestNonPositiveSpeedPanics(t *testing.T) {
	assert.Panics(t, func() { New(1, entity.North, entity.GoStraight, 0) })
}
