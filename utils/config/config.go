package config

import (
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"gopkg.in/yaml.v2"
)

const (
	DefaultOutputDB       = "intersection"
	DefaultOutputCol      = "stats"
	DefaultOutputInterval = entity.FPS
)

// RuntimeConfig 运行时配置
// 功能：存储补全默认值并校验后的配置信息
type RuntimeConfig struct {
	All    Config  // 全部配置
	C      Control // 全局控制配置
	Spawn  Spawn
	Output Output
}

// Load 解析YAML配置
// 功能：严格解析配置文件内容，未知字段视为错误
// 参数：data-YAML文本
// 返回：配置对象与错误
func Load(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config unmarshal err: %w", err)
	}
	return c, nil
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：校验配置并补全默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针与错误
// 算法说明：
// 1. 检查步数、概率、权重长度的合法性
// 2. 设置默认值：步长默认1/FPS秒，输出库表与间隔使用默认值
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if config.Control.Step.Total <= 0 {
		return nil, fmt.Errorf("control.step.total must be positive, got %d", config.Control.Step.Total)
	}
	if config.Control.Step.Interval < 0 {
		return nil, fmt.Errorf("control.step.interval must not be negative, got %v", config.Control.Step.Interval)
	}
	s := config.Spawn
	if s.Probability < 0 || s.Probability > 1 {
		return nil, fmt.Errorf("spawn.probability must be in [0, 1], got %v", s.Probability)
	}
	if s.Cooldown < 0 {
		return nil, fmt.Errorf("spawn.cooldown must not be negative, got %d", s.Cooldown)
	}
	if err := checkWeights("spawn.direction_weights", s.DirectionWeights, entity.DirectionCount); err != nil {
		return nil, err
	}
	if err := checkWeights("spawn.route_weights", s.RouteWeights, entity.RouteCount); err != nil {
		return nil, err
	}

	rc := &RuntimeConfig{
		All:    config,
		C:      config.Control,
		Spawn:  config.Spawn,
		Output: config.Output,
	}
	if rc.C.Step.Interval == 0 {
		rc.C.Step.Interval = 1. / entity.FPS
	}
	if rc.Output.DB == "" {
		rc.Output.DB = DefaultOutputDB
	}
	if rc.Output.Col == "" {
		rc.Output.Col = DefaultOutputCol
	}
	if rc.Output.Interval <= 0 {
		rc.Output.Interval = DefaultOutputInterval
	}
	return rc, nil
}

func checkWeights(name string, weights []float64, n int) error {
	if len(weights) == 0 {
		return nil
	}
	if len(weights) != n {
		return fmt.Errorf("%s must have %d entries, got %d", name, n, len(weights))
	}
	sum := 0.
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must not contain negative weights, got %v", name, weights)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("%s must not be all zero", name)
	}
	return nil
}
