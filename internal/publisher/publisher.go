// Package publisher 提供测量事件的对外发布
//
// 两条通道：
// - Redis Streams：camera-vitals:event:stream（下游聚合/报警服务消费）
// - MQTT：camera-vitals/{camera_id}/vitals 与 .../quality（前端订阅）
// 发布失败只记录日志，不影响测量 tick。
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"wisefido-camera-vitals/internal/common/redisutil"
	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MessagePublisher MQTT 发布抽象（用于在单元测试中替换真实客户端）
type MessagePublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// EventPublisher 测量事件发布器
type EventPublisher struct {
	config      *config.Config
	redisClient *redis.Client
	mqttClient  MessagePublisher
	logger      *zap.Logger
}

// NewEventPublisher 创建事件发布器
// mqttClient 可为 nil（只发布到 Redis Streams）
func NewEventPublisher(
	cfg *config.Config,
	redisClient *redis.Client,
	mqttClient MessagePublisher,
	logger *zap.Logger,
) *EventPublisher {
	return &EventPublisher{
		config:      cfg,
		redisClient: redisClient,
		mqttClient:  mqttClient,
		logger:      logger,
	}
}

// PublishEvent 发布会话事件
func (p *EventPublisher) PublishEvent(ctx context.Context, event *models.SessionEvent) error {
	stream := p.config.Monitor.Stream.Output

	if _, err := redisutil.PublishJSONToStream(ctx, p.redisClient, stream, event); err != nil {
		return fmt.Errorf("failed to publish event to stream %s: %w", stream, err)
	}

	if err := p.publishMQTT(event); err != nil {
		// MQTT 失败不影响 Streams 发布结果
		p.logger.Warn("Failed to publish event to MQTT",
			zap.String("event_type", string(event.EventType)),
			zap.String("camera_id", event.CameraID),
			zap.Error(err),
		)
	}

	return nil
}

// publishMQTT 按事件类型发布到对应 MQTT 主题
func (p *EventPublisher) publishMQTT(event *models.SessionEvent) error {
	if p.mqttClient == nil {
		return nil
	}

	var topic string
	switch event.EventType {
	case models.EventVitalsUpdated:
		topic = fmt.Sprintf("camera-vitals/%s/vitals", event.CameraID)
	case models.EventQualityChanged:
		topic = fmt.Sprintf("camera-vitals/%s/quality", event.CameraID)
	default:
		topic = fmt.Sprintf("camera-vitals/%s/session", event.CameraID)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.mqttClient.Publish(topic, p.config.MQTT.QoS, false, payload)
}
