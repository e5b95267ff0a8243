package consumer

import (
	"testing"
	"time"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/frame"
	"wisefido-camera-vitals/internal/models"
	"wisefido-camera-vitals/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Monitor.IntervalMs = 5
	cfg.Monitor.CalibrationTicks = 3
	cfg.Monitor.FaceConfidenceThreshold = 0.7
	cfg.Monitor.EnableHRV = true
	return cfg
}

func newTestConsumer(t *testing.T) (*ControlConsumer, *session.Manager) {
	cfg := testConfig()
	manager := session.NewManager(cfg, zap.NewNop())
	t.Cleanup(manager.CloseAll)

	// mqttClient 为 nil：handleMessage 不经过 MQTT 客户端
	c := NewControlConsumer(cfg, nil, manager, zap.NewNop())
	return c, manager
}

func createSession(t *testing.T, manager *session.Manager, cameraID string) *session.Session {
	source := frame.NewSyntheticSource()
	sess, err := manager.CreateSession(cameraID, source, session.Callbacks{})
	require.NoError(t, err)
	return sess
}

func TestHandleMessage_StartCommand(t *testing.T) {
	c, manager := newTestConsumer(t)
	sess := createSession(t, manager, "cam-1")

	err := c.handleMessage("camera-vitals/cam-1/control", []byte(`{"command":"start"}`))
	require.NoError(t, err)
	defer sess.Stop()

	assert.Eventually(t, func() bool {
		state := sess.State()
		return state == models.StateCalibrating || state == models.StateMeasuring
	}, time.Second, 5*time.Millisecond)
}

func TestHandleMessage_StopCommand(t *testing.T) {
	c, manager := newTestConsumer(t)
	sess := createSession(t, manager, "cam-1")
	require.NoError(t, sess.Start())

	err := c.handleMessage("camera-vitals/cam-1/control", []byte(`{"command":"stop"}`))
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, sess.State())
}

func TestHandleMessage_PauseResume(t *testing.T) {
	c, manager := newTestConsumer(t)
	sess := createSession(t, manager, "cam-1")
	require.NoError(t, sess.Start())
	defer sess.Stop()

	require.NoError(t, c.handleMessage("camera-vitals/cam-1/control", []byte(`{"command":"pause"}`)))
	assert.Equal(t, models.StatePaused, sess.State())

	require.NoError(t, c.handleMessage("camera-vitals/cam-1/control", []byte(`{"command":"resume"}`)))
	assert.NotEqual(t, models.StatePaused, sess.State())
}

func TestHandleMessage_UnknownCamera(t *testing.T) {
	c, _ := newTestConsumer(t)

	// 未建立会话的摄像头指令被忽略
	err := c.handleMessage("camera-vitals/cam-unknown/control", []byte(`{"command":"start"}`))
	assert.NoError(t, err)
}

func TestHandleMessage_InvalidTopic(t *testing.T) {
	c, _ := newTestConsumer(t)

	err := c.handleMessage("camera-vitals", []byte(`{"command":"start"}`))
	assert.Error(t, err)
}

func TestHandleMessage_InvalidPayload(t *testing.T) {
	c, manager := newTestConsumer(t)
	createSession(t, manager, "cam-1")

	err := c.handleMessage("camera-vitals/cam-1/control", []byte(`not-json`))
	assert.Error(t, err)
}

func TestHandleMessage_UnknownCommand(t *testing.T) {
	c, manager := newTestConsumer(t)
	createSession(t, manager, "cam-1")

	err := c.handleMessage("camera-vitals/cam-1/control", []byte(`{"command":"reboot"}`))
	assert.Error(t, err)
}
