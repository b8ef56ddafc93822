package junction

import (
	"sync"

	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

// Manager 路口管理器
// 功能：持有唯一的路口实例，串行化模拟步推进与外部（RPC）读写
// 说明：路口本身不是线程安全的，所有访问都必须经过Manager
type Manager struct {
	mtx          sync.Mutex
	intersection *Intersection
}

// NewManager 创建路口管理器实例
// 参数：generator-随机数引擎
// 返回：新创建的管理器，路口为全红、无车状态
func NewManager(generator *randengine.Engine) *Manager {
	return &Manager{
		intersection: New(generator),
	}
}

// Update 推进路口一步
func (m *Manager) Update() {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.intersection.Update()
}

// Do 在持有锁的情况下访问路口
// 说明：f中不得保留路口或车辆的引用到调用结束之后
func (m *Manager) Do(f func(i *Intersection)) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	f(m.intersection)
}

// Stats 获取路口统计快照
func (m *Manager) Stats() Stats {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.intersection.Stats()
}
