package junction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

func newTestServer(t *testing.T) (*Manager, *httptest.Server) {
	m := NewManager(randengine.New(0))
	pattern, handler := m.NewHandler()
	mux := http.NewServeMux()
	mux.Handle(pattern, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return m, server
}

func call[Req, Res any](server *httptest.Server, procedure string, req *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](server.Client(), server.URL+procedure, NewClientOption())
	res, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func TestRPCSpawnAndStats(t *testing.T) {
	m, server := newTestServer(t)

	spawn, err := call[SpawnVehicleRequest, SpawnVehicleResponse](server, SpawnVehicleProcedure,
		&SpawnVehicleRequest{Direction: "north", Route: "straight"})
	require.NoError(t, err)
	assert.True(t, spawn.Ok)

	// 出生点被占用
	spawn, err = call[SpawnVehicleRequest, SpawnVehicleResponse](server, SpawnVehicleProcedure,
		&SpawnVehicleRequest{Direction: "north"})
	require.NoError(t, err)
	assert.False(t, spawn.Ok)

	spawn, err = call[SpawnVehicleRequest, SpawnVehicleResponse](server, SpawnVehicleProcedure,
		&SpawnVehicleRequest{Direction: DirectionRandom})
	require.NoError(t, err)
	expected := 1
	if spawn.Ok {
		expected = 2
	}

	m.Update()
	stats, err := call[GetStatsRequest, GetStatsResponse](server, GetStatsProcedure, &GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, expected, stats.Stats.Waiting)
	assert.Equal(t, 1, stats.Stats.ElapsedTicks)
	assert.Equal(t, m.Stats(), stats.Stats)
}

func TestRPCGetVehicles(t *testing.T) {
	m, server := newTestServer(t)
	m.Do(func(i *Intersection) {
		require.True(t, i.Spawn(entity.North, entity.GoStraight))
	})

	res, err := call[GetVehiclesRequest, GetVehiclesResponse](server, GetVehiclesProcedure, &GetVehiclesRequest{})
	require.NoError(t, err)
	require.Len(t, res.Vehicles, 1)
	v := res.Vehicles[0]
	assert.Equal(t, "north", v.Approach)
	assert.Equal(t, "straight", v.Route)
	assert.Equal(t, "south", v.Exit)
	assert.Equal(t, WhereWaiting, v.Where)
	assert.Equal(t, 380, v.X)
	assert.Equal(t, 0, v.Y)

	res, err = call[GetVehiclesRequest, GetVehiclesResponse](server, GetVehiclesProcedure, &GetVehiclesRequest{Where: WhereDeparted})
	require.NoError(t, err)
	assert.Empty(t, res.Vehicles)

	_, err = call[GetVehiclesRequest, GetVehiclesResponse](server, GetVehiclesProcedure, &GetVehiclesRequest{Where: "garage"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestRPCGetTrafficLights(t *testing.T) {
	m, server := newTestServer(t)
	res, err := call[GetTrafficLightsRequest, GetTrafficLightsResponse](server, GetTrafficLightsProcedure, &GetTrafficLightsRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Lights, 4)
	for _, s := range res.Lights {
		assert.Equal(t, "LIGHT_STATE_RED", s)
	}

	m.Do(func(i *Intersection) {
		require.True(t, i.SpawnVehicleFromEast())
	})
	m.Update()
	res, err = call[GetTrafficLightsRequest, GetTrafficLightsResponse](server, GetTrafficLightsProcedure, &GetTrafficLightsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "LIGHT_STATE_GREEN", res.Lights["east"])
	assert.Equal(t, "LIGHT_STATE_RED", res.Lights["west"])
}

func TestRPCInvalidArgument(t *testing.T) {
	_, server := newTestServer(t)
	cases := []SpawnVehicleRequest{
		{Direction: "up"},
		{Direction: "east", Route: "u-turn"},
		{Direction: DirectionRandom, Route: "left"},
	}
	for _, c := range cases {
		_, err := call[SpawnVehicleRequest, SpawnVehicleResponse](server, SpawnVehicleProcedure, &c)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "%+v", c)
	}
}
