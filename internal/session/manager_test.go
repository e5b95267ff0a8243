package session

import (
	"testing"

	"wisefido-camera-vitals/internal/frame"
	"wisefido-camera-vitals/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager() *Manager {
	return NewManager(newTestConfig(10), zap.NewNop())
}

func TestManager_CreateSession(t *testing.T) {
	m := newTestManager()

	sess, err := m.CreateSession("cam-1", frame.NewSyntheticSource(), Callbacks{})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID())
	assert.Equal(t, "cam-1", sess.CameraID())
	assert.Equal(t, models.StateIdle, sess.State())
	assert.Equal(t, 1, m.Count())

	found, ok := m.GetSession("cam-1")
	require.True(t, ok)
	assert.Same(t, sess, found)
}

func TestManager_OneSessionPerCamera(t *testing.T) {
	m := newTestManager()

	_, err := m.CreateSession("cam-1", frame.NewSyntheticSource(), Callbacks{})
	require.NoError(t, err)

	_, err = m.CreateSession("cam-1", frame.NewSyntheticSource(), Callbacks{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 1, m.Count())
}

func TestManager_CloseSession(t *testing.T) {
	m := newTestManager()

	sess, err := m.CreateSession("cam-1", frame.NewSyntheticSource(), Callbacks{})
	require.NoError(t, err)
	require.NoError(t, sess.Start())

	m.CloseSession("cam-1")
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, models.StateIdle, sess.State())

	_, ok := m.GetSession("cam-1")
	assert.False(t, ok)

	// 幂等：不存在的摄像头为空操作
	m.CloseSession("cam-1")
	m.CloseSession("cam-unknown")
}

func TestManager_CloseAll(t *testing.T) {
	m := newTestManager()

	sess1, err := m.CreateSession("cam-1", frame.NewSyntheticSource(), Callbacks{})
	require.NoError(t, err)
	sess2, err := m.CreateSession("cam-2", frame.NewSyntheticSource(), Callbacks{})
	require.NoError(t, err)

	require.NoError(t, sess1.Start())
	require.NoError(t, sess2.Start())

	m.CloseAll()
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, models.StateIdle, sess1.State())
	assert.Equal(t, models.StateIdle, sess2.State())

	// 同一摄像头可以重新建会话
	_, err = m.CreateSession("cam-1", frame.NewSyntheticSource(), Callbacks{})
	assert.NoError(t, err)
}
