// Package consumer 提供 MQTT 控制指令消费
//
// 订阅 camera-vitals/{camera_id}/control，将 start/pause/resume/stop
// 指令路由到对应摄像头的会话。
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wisefido-camera-vitals/internal/common/mqttutil"
	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/session"

	"go.uber.org/zap"
)

// 控制主题（+ 为摄像头标识通配）
const controlTopicFilter = "camera-vitals/+/control"

// ControlCommand 控制指令消息
// 主题格式: camera-vitals/{camera_id}/control
type ControlCommand struct {
	Command string `json:"command"` // "start" | "pause" | "resume" | "stop"
}

// ControlConsumer MQTT 控制指令消费者
type ControlConsumer struct {
	config     *config.Config
	mqttClient *mqttutil.Client
	manager    *session.Manager
	logger     *zap.Logger
}

// NewControlConsumer 创建控制指令消费者
func NewControlConsumer(
	cfg *config.Config,
	mqttClient *mqttutil.Client,
	manager *session.Manager,
	logger *zap.Logger,
) *ControlConsumer {
	return &ControlConsumer{
		config:     cfg,
		mqttClient: mqttClient,
		manager:    manager,
		logger:     logger,
	}
}

// Start 启动消费者
func (c *ControlConsumer) Start(ctx context.Context) error {
	if err := c.mqttClient.Subscribe(controlTopicFilter, c.config.MQTT.QoS, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to control topic: %w", err)
	}

	c.logger.Info("Control consumer started",
		zap.String("topic", controlTopicFilter),
	)

	return nil
}

// Stop 停止消费者
func (c *ControlConsumer) Stop(ctx context.Context) error {
	if err := c.mqttClient.Unsubscribe(controlTopicFilter); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.Error(err))
	}

	c.logger.Info("Control consumer stopped")
	return nil
}

// handleMessage 处理控制指令
func (c *ControlConsumer) handleMessage(topic string, payload []byte) error {
	// 从主题中提取摄像头标识
	// 主题格式: camera-vitals/{camera_id}/control
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return fmt.Errorf("invalid topic format: %s", topic)
	}
	cameraID := parts[1]

	var cmd ControlCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		c.logger.Error("Failed to unmarshal control command",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to unmarshal command: %w", err)
	}

	sess, ok := c.manager.GetSession(cameraID)
	if !ok {
		// 会话未建立（摄像头未连接），忽略指令
		c.logger.Warn("Control command for unknown camera",
			zap.String("camera_id", cameraID),
			zap.String("command", cmd.Command),
		)
		return nil
	}

	c.logger.Info("Handling control command",
		zap.String("camera_id", cameraID),
		zap.String("command", cmd.Command),
	)

	switch cmd.Command {
	case "start":
		return sess.Start()
	case "pause":
		sess.Pause()
	case "resume":
		sess.Resume()
	case "stop":
		sess.Stop()
	default:
		return fmt.Errorf("unknown control command: %s", cmd.Command)
	}

	return nil
}
