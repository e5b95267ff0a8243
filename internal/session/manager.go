package session

import (
	"fmt"
	"sync"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/frame"

	"go.uber.org/zap"
)

// Manager 会话管理器
//
// 每个摄像头同一时刻最多一个会话。会话状态只属于各自的 Session
// 实例，Manager 只负责创建、查找和销毁。
type Manager struct {
	config *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session // key: camera_id
}

// NewManager 创建会话管理器
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		config:   cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// CreateSession 为摄像头创建会话
// 同一摄像头已有会话时返回错误（一个摄像头连接只允许一个会话）
func (m *Manager) CreateSession(cameraID string, source frame.FrameSource, callbacks Callbacks) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[cameraID]; exists {
		return nil, fmt.Errorf("session already exists for camera: %s", cameraID)
	}

	sess := NewSession(m.config, cameraID, source, callbacks, m.logger)
	m.sessions[cameraID] = sess

	m.logger.Info("Session created",
		zap.String("session_id", sess.ID()),
		zap.String("camera_id", cameraID),
	)

	return sess, nil
}

// GetSession 查找摄像头对应的会话
func (m *Manager) GetSession(cameraID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[cameraID]
	return sess, ok
}

// CloseSession 销毁摄像头对应的会话（停止 ticker 并释放）
// 幂等：会话不存在时为空操作
func (m *Manager) CloseSession(cameraID string) {
	m.mu.Lock()
	sess, ok := m.sessions[cameraID]
	if ok {
		delete(m.sessions, cameraID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	sess.Stop()
	m.logger.Info("Session closed",
		zap.String("session_id", sess.ID()),
		zap.String("camera_id", cameraID),
	)
}

// CloseAll 销毁所有会话
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Stop()
	}

	if len(sessions) > 0 {
		m.logger.Info("All sessions closed",
			zap.Int("count", len(sessions)),
		)
	}
}

// Count 当前会话数
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
