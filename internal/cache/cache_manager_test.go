package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *CacheManager) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cfg := &config.Config{}
	cfg.Monitor.Cache.RealtimeKeyPrefix = "camera-vitals:session:"
	cfg.Monitor.Cache.RealtimeTTL = 300

	logger := zap.NewNop()
	cacheManager := NewCacheManager(cfg, NewRedisKVStore(redisClient), logger)

	return mr, cacheManager
}

func intPtr(v int) *int { return &v }

func TestCacheManager_UpdateRealtime_WritesJSON(t *testing.T) {
	mr, cm := setupTestRedis(t)

	snapshot := &RealtimeSnapshot{
		SessionID: "sess-1",
		CameraID:  "cam-1",
		State:     models.StateMeasuring,
		Quality: &models.SignalQuality{
			Overall:      85,
			FaceDetected: true,
		},
		Vitals: &models.VitalsReading{
			HeartRate: intPtr(72),
		},
		Timestamp: time.Now().Unix(),
	}

	err := cm.UpdateRealtime(context.Background(), snapshot)
	require.NoError(t, err)

	raw, err := mr.Get("camera-vitals:session:sess-1:realtime")
	require.NoError(t, err)

	var decoded RealtimeSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "sess-1", decoded.SessionID)
	assert.Equal(t, "cam-1", decoded.CameraID)
	assert.Equal(t, models.StateMeasuring, decoded.State)
	require.NotNil(t, decoded.Quality)
	assert.Equal(t, 85, decoded.Quality.Overall)
	require.NotNil(t, decoded.Vitals)
	assert.Equal(t, intPtr(72), decoded.Vitals.HeartRate)

	// TTL 已设置
	ttl := mr.TTL("camera-vitals:session:sess-1:realtime")
	assert.Equal(t, 300*time.Second, ttl)
}

func TestCacheManager_GetRealtime_Success(t *testing.T) {
	_, cm := setupTestRedis(t)

	snapshot := &RealtimeSnapshot{
		SessionID: "sess-2",
		CameraID:  "cam-2",
		State:     models.StateCalibrating,
		Timestamp: time.Now().Unix(),
	}
	require.NoError(t, cm.UpdateRealtime(context.Background(), snapshot))

	got, err := cm.GetRealtime(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.Equal(t, "cam-2", got.CameraID)
	assert.Equal(t, models.StateCalibrating, got.State)
	assert.Nil(t, got.Quality)
	assert.Nil(t, got.Vitals)
}

func TestCacheManager_GetRealtime_NotFound(t *testing.T) {
	_, cm := setupTestRedis(t)

	_, err := cm.GetRealtime(context.Background(), "sess-not-exist")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "realtime data not found")
}

func TestRedisKVStore_CacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	kv := NewRedisKVStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, err := kv.Get(context.Background(), "missing")
	assert.Equal(t, ErrCacheMiss, err)
}
