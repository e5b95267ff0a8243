// Package cache 提供会话实时数据的 Redis 缓存
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/models"

	"go.uber.org/zap"
)

// RealtimeSnapshot 会话实时数据快照
// 缓存键：camera-vitals:session:{session_id}:realtime
type RealtimeSnapshot struct {
	SessionID string                `json:"session_id"`
	CameraID  string                `json:"camera_id"`
	State     models.SessionState   `json:"state"`
	Quality   *models.SignalQuality `json:"quality,omitempty"`
	Vitals    *models.VitalsReading `json:"vitals,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

// CacheManager Redis 缓存管理器（会话实时数据）
type CacheManager struct {
	config *config.Config
	kv     KVStore
	logger *zap.Logger
}

// NewCacheManager 创建缓存管理器
func NewCacheManager(
	cfg *config.Config,
	kv KVStore,
	logger *zap.Logger,
) *CacheManager {
	return &CacheManager{
		config: cfg,
		kv:     kv,
		logger: logger,
	}
}

// UpdateRealtime 更新会话实时数据缓存
func (c *CacheManager) UpdateRealtime(ctx context.Context, snapshot *RealtimeSnapshot) error {
	key := c.realtimeKey(snapshot.SessionID)

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal realtime snapshot: %w", err)
	}

	ttl := time.Duration(c.config.Monitor.Cache.RealtimeTTL) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	if err := c.kv.Set(ctx, key, string(jsonData), ttl); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Updated realtime cache",
		zap.String("session_id", snapshot.SessionID),
		zap.String("key", key),
	)

	return nil
}

// GetRealtime 读取会话实时数据缓存
func (c *CacheManager) GetRealtime(ctx context.Context, sessionID string) (*RealtimeSnapshot, error) {
	key := c.realtimeKey(sessionID)

	val, err := c.kv.Get(ctx, key)
	if err != nil {
		if err == ErrCacheMiss {
			return nil, fmt.Errorf("realtime data not found for session: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get realtime data: %w", err)
	}

	var snapshot RealtimeSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal realtime snapshot: %w", err)
	}

	return &snapshot, nil
}

func (c *CacheManager) realtimeKey(sessionID string) string {
	prefix := c.config.Monitor.Cache.RealtimeKeyPrefix
	if prefix == "" {
		prefix = "camera-vitals:session:"
	}
	return fmt.Sprintf("%s%s:realtime", prefix, sessionID)
}
