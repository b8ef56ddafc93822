package junction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/vehicle"
)

const (
	// IntersectionServiceName 路口服务全名
	IntersectionServiceName = "city.intersection.v1.IntersectionService"

	GetStatsProcedure         = "/" + IntersectionServiceName + "/GetStats"
	GetTrafficLightsProcedure = "/" + IntersectionServiceName + "/GetTrafficLights"
	GetVehiclesProcedure      = "/" + IntersectionServiceName + "/GetVehicles"
	SpawnVehicleProcedure     = "/" + IntersectionServiceName + "/SpawnVehicle"
)

// 车辆所在位置
const (
	WhereWaiting      = "waiting"
	WhereIntersection = "intersection"
	WhereDeparted     = "departed"
)

// 随机进口
const DirectionRandom = "random"

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Stats Stats `json:"stats"`
}

type GetTrafficLightsRequest struct{}

type GetTrafficLightsResponse struct {
	// 进口方位 -> 灯色
	Lights map[string]string `json:"lights"`
}

type GetVehiclesRequest struct {
	// 只返回指定位置的车辆，为空返回全部
	Where string `json:"where,omitempty"`
}

type VehicleInfo struct {
	ID       int32  `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Approach string `json:"approach"`
	Route    string `json:"route"`
	Exit     string `json:"exit"`
	Speed    int    `json:"speed"`
	Where    string `json:"where"`
}

type GetVehiclesResponse struct {
	Vehicles []VehicleInfo `json:"vehicles"`
}

type SpawnVehicleRequest struct {
	// north/south/east/west/random
	Direction string `json:"direction"`
	// left/right/straight，为空时随机
	Route string `json:"route,omitempty"`
}

type SpawnVehicleResponse struct {
	// 进口拥堵时为false
	Ok bool `json:"ok"`
}

// jsonCodec 以JSON编码普通Go结构体的connect编解码器
// 说明：服务消息不是protobuf消息，替换connect默认的"json"编解码器
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// NewClientOption 访问路口服务的客户端所需的选项
func NewClientOption() connect.ClientOption {
	return connect.WithCodec(jsonCodec{})
}

// NewHandler 构造路口服务的HTTP处理器
// 参数：opts-connect处理器选项
// 返回：挂载路径前缀与处理器
func (m *Manager) NewHandler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(jsonCodec{}))
	mux := http.NewServeMux()
	mux.Handle(GetStatsProcedure, connect.NewUnaryHandler(GetStatsProcedure, m.GetStats, opts...))
	mux.Handle(GetTrafficLightsProcedure, connect.NewUnaryHandler(GetTrafficLightsProcedure, m.GetTrafficLights, opts...))
	mux.Handle(GetVehiclesProcedure, connect.NewUnaryHandler(GetVehiclesProcedure, m.GetVehicles, opts...))
	mux.Handle(SpawnVehicleProcedure, connect.NewUnaryHandler(SpawnVehicleProcedure, m.SpawnVehicle, opts...))
	return "/" + IntersectionServiceName + "/", mux
}

// Register 将路口管理器注册到sidecar
// 功能：将路口管理器注册为RPC服务，提供远程调用接口
// 参数：sidecar-同步器侧车实例
func (m *Manager) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		IntersectionServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return m.NewHandler(opts...)
		},
	)
}

// GetStats RPC接口：获取路口统计快照
func (m *Manager) GetStats(
	ctx context.Context, in *connect.Request[GetStatsRequest],
) (*connect.Response[GetStatsResponse], error) {
	return connect.NewResponse(&GetStatsResponse{Stats: m.Stats()}), nil
}

// GetTrafficLights RPC接口：获取四个进口的灯色
func (m *Manager) GetTrafficLights(
	ctx context.Context, in *connect.Request[GetTrafficLightsRequest],
) (*connect.Response[GetTrafficLightsResponse], error) {
	res := &GetTrafficLightsResponse{Lights: make(map[string]string, entity.DirectionCount)}
	m.Do(func(i *Intersection) {
		for d, s := range i.TrafficLight().States() {
			res.Lights[entity.Direction(d).String()] = s.String()
		}
	})
	return connect.NewResponse(res), nil
}

// GetVehicles RPC接口：获取车辆列表
// 功能：按进口排队、路口内、驶出队列的顺序返回车辆状态，可按位置过滤
// 说明：位置参数非法时返回InvalidArgument错误
func (m *Manager) GetVehicles(
	ctx context.Context, in *connect.Request[GetVehiclesRequest],
) (*connect.Response[GetVehiclesResponse], error) {
	where := in.Msg.Where
	if where != "" && !lo.Contains([]string{WhereWaiting, WhereIntersection, WhereDeparted}, where) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("unknown vehicle location "+where))
	}
	res := &GetVehiclesResponse{Vehicles: make([]VehicleInfo, 0)}
	collect := func(tag string, vs []*vehicle.Vehicle) {
		if where != "" && where != tag {
			return
		}
		res.Vehicles = append(res.Vehicles, lo.Map(vs, func(v *vehicle.Vehicle, _ int) VehicleInfo {
			return newVehicleInfo(v, tag)
		})...)
	}
	m.Do(func(i *Intersection) {
		for _, d := range entity.Directions {
			collect(WhereWaiting, i.Waiting(d))
		}
		if v := i.InIntersection(); v != nil {
			collect(WhereIntersection, []*vehicle.Vehicle{v})
		}
		for _, d := range entity.Directions {
			collect(WhereDeparted, i.Departed(d))
		}
	})
	return connect.NewResponse(res), nil
}

// SpawnVehicle RPC接口：在指定进口生成车辆
// 功能：方向为random时随机选择进口，转向为空时随机选择转向
// 返回：进口拥堵时ok为false，参数非法时返回InvalidArgument错误
func (m *Manager) SpawnVehicle(
	ctx context.Context, in *connect.Request[SpawnVehicleRequest],
) (*connect.Response[SpawnVehicleResponse], error) {
	req := in.Msg
	if req.Direction == DirectionRandom {
		if req.Route != "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("route cannot be forced for a random direction"))
		}
		var ok bool
		m.Do(func(i *Intersection) { ok = i.SpawnVehicleRandom() })
		return connect.NewResponse(&SpawnVehicleResponse{Ok: ok}), nil
	}
	d, err := entity.ParseDirection(req.Direction)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	var ok bool
	if req.Route == "" {
		m.Do(func(i *Intersection) { ok = i.spawnFrom(d) })
	} else {
		r, err := entity.ParseRoute(req.Route)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		m.Do(func(i *Intersection) { ok = i.Spawn(d, r) })
	}
	return connect.NewResponse(&SpawnVehicleResponse{Ok: ok}), nil
}

func newVehicleInfo(v *vehicle.Vehicle, where string) VehicleInfo {
	return VehicleInfo{
		ID:       v.ID(),
		X:        v.X(),
		Y:        v.Y(),
		Approach: v.Approach().String(),
		Route:    v.Route().String(),
		Exit:     v.Exit().String(),
		Speed:    v.Speed(),
		Where:    where,
	}
}
