package session

import (
	"sync"
	"time"
)

// Metrics 会话监控指标
type Metrics struct {
	mu sync.RWMutex

	// tick 处理统计
	TicksProcessed int64 // 处理的 tick 总数
	FramesNoFace   int64 // 未检测到人脸的 tick 数
	VitalsProduced int64 // 产生测量结果的 tick 数

	// 错误分类统计
	ErrorsTick int64 // tick 处理失败数

	// 时间
	LastTickTime time.Time // 最后一次 tick 处理时间
	StartTime    time.Time // 会话创建时间
}

// GetSnapshot 获取指标快照（线程安全）
func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		TicksProcessed: m.TicksProcessed,
		FramesNoFace:   m.FramesNoFace,
		VitalsProduced: m.VitalsProduced,
		ErrorsTick:     m.ErrorsTick,
		LastTickTime:   m.LastTickTime,
		StartTime:      m.StartTime,
	}
}

// IncrementTick 增加 tick 计数
func (m *Metrics) IncrementTick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TicksProcessed++
	m.LastTickTime = time.Now()
}

// IncrementNoFace 增加无人脸计数
func (m *Metrics) IncrementNoFace() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FramesNoFace++
}

// IncrementVitals 增加测量结果计数
func (m *Metrics) IncrementVitals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VitalsProduced++
}

// IncrementTickError 增加 tick 失败计数
func (m *Metrics) IncrementTickError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorsTick++
}
