// Package service 提供摄像头生命体征服务的装配
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wisefido-camera-vitals/internal/cache"
	"wisefido-camera-vitals/internal/common/database"
	"wisefido-camera-vitals/internal/common/mqttutil"
	"wisefido-camera-vitals/internal/common/redisutil"
	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/consumer"
	"wisefido-camera-vitals/internal/frame"
	"wisefido-camera-vitals/internal/models"
	"wisefido-camera-vitals/internal/presage"
	"wisefido-camera-vitals/internal/publisher"
	"wisefido-camera-vitals/internal/repository"
	"wisefido-camera-vitals/internal/session"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MonitorService 摄像头生命体征监测服务
type MonitorService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redis       *redis.Client
	mqttClient  *mqttutil.Client
	vitalsRepo  *repository.VitalsRepository
	cache       *cache.CacheManager
	publisher   *publisher.EventPublisher
	presage     *presage.Client
	manager     *session.Manager
	consumer    *consumer.ControlConsumer
}

// NewMonitorService 创建监测服务
func NewMonitorService(cfg *config.Config, logger *zap.Logger) (*MonitorService, error) {
	// 初始化数据库
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 初始化Redis
	redisClient := redisutil.NewRedisClient(&cfg.Redis)
	if err := redisutil.Ping(context.Background(), redisClient); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// 初始化MQTT
	mqttClient, err := mqttutil.NewClient(&cfg.MQTT, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// 创建Repository
	vitalsRepo := repository.NewVitalsRepository(db, logger)

	// 创建缓存与发布器
	cacheManager := cache.NewCacheManager(cfg, cache.NewRedisKVStore(redisClient), logger)
	eventPublisher := publisher.NewEventPublisher(cfg, redisClient, mqttClient, logger)

	// 创建厂家客户端与会话管理器
	presageClient := presage.NewClient(&cfg.Presage, logger)
	manager := session.NewManager(cfg, logger)

	// 创建控制指令消费者
	controlConsumer := consumer.NewControlConsumer(cfg, mqttClient, manager, logger)

	return &MonitorService{
		config:     cfg,
		logger:     logger,
		db:         db,
		redis:      redisClient,
		mqttClient: mqttClient,
		vitalsRepo: vitalsRepo,
		cache:      cacheManager,
		publisher:  eventPublisher,
		presage:    presageClient,
		manager:    manager,
		consumer:   controlConsumer,
	}, nil
}

// Start 启动服务
//
// 凭证缺失时进入模拟模式：跳过厂家校验并记录降级告警，服务照常
// 运行；凭证无效/网络失败同样降级（错误已记录），不阻止启动。
func (s *MonitorService) Start(ctx context.Context) error {
	s.logger.Info("Starting camera vitals service components")

	if s.config.SimulationMode() {
		s.logger.Warn("No Presage API key configured, running in simulation mode")
	} else {
		if err := s.presage.ValidateAPIKey(ctx); err != nil {
			s.logger.Warn("Presage credential validation failed, running in simulation mode",
				zap.Error(err),
			)
		}
	}

	// 启动MQTT控制指令消费者
	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start control consumer: %w", err)
	}

	s.logger.Info("Camera vitals service started successfully")
	return nil
}

// Stop 停止服务
func (s *MonitorService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping camera vitals service")

	// 销毁所有会话
	if s.manager != nil {
		s.manager.CloseAll()
	}

	// 停止Consumer
	if s.consumer != nil {
		if err := s.consumer.Stop(ctx); err != nil {
			s.logger.Error("Error stopping consumer", zap.Error(err))
		}
	}

	// 断开MQTT
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}

	// 关闭Redis
	if s.redis != nil {
		redisutil.Close(s.redis)
	}

	// 关闭数据库
	if s.db != nil {
		database.Close(s.db)
	}

	s.logger.Info("Camera vitals service stopped")
	return nil
}

// Manager 会话管理器（宿主通过它控制会话）
func (s *MonitorService) Manager() *session.Manager {
	return s.manager
}

// OpenSession 为摄像头建立会话并接好数据管线
//
// 管线顺序（单个 tick 内）：宿主回调 → 缓存更新 → 持久化 →
// 事件发布；缓存/持久化/发布失败只记录日志，不影响测量。
func (s *MonitorService) OpenSession(cameraID string, source frame.FrameSource, host session.Callbacks) (*session.Session, error) {
	var sess *session.Session

	pipeline := session.Callbacks{
		QualityChanged: func(q models.SignalQuality) {
			if host.QualityChanged != nil {
				host.QualityChanged(q)
			}
			s.recordQuality(sess, q)
		},
		VitalsUpdated: func(r models.VitalsReading) {
			if host.VitalsUpdated != nil {
				host.VitalsUpdated(r)
			}
			s.recordVitals(sess, r)
		},
		FaceDetectionChanged: host.FaceDetectionChanged,
		MeasurementStarted: func() {
			if host.MeasurementStarted != nil {
				host.MeasurementStarted()
			}
			s.publishLifecycle(sess, models.EventMeasurementStarted)
		},
		MeasurementStopped: func() {
			if host.MeasurementStopped != nil {
				host.MeasurementStopped()
			}
			s.publishLifecycle(sess, models.EventMeasurementStopped)
		},
		Ready: func() {
			if host.Ready != nil {
				host.Ready()
			}
			s.publishLifecycle(sess, models.EventSessionReady)
		},
		Error: host.Error,
	}

	created, err := s.manager.CreateSession(cameraID, source, pipeline)
	if err != nil {
		return nil, err
	}
	sess = created
	return sess, nil
}

// recordQuality 质量变化的下游处理：缓存 + 发布
func (s *MonitorService) recordQuality(sess *session.Session, q models.SignalQuality) {
	if sess == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	snapshot := &cache.RealtimeSnapshot{
		SessionID: sess.ID(),
		CameraID:  sess.CameraID(),
		State:     sess.State(),
		Quality:   &q,
		Vitals:    sess.LatestVitals(),
		Timestamp: time.Now().Unix(),
	}
	if err := s.cache.UpdateRealtime(ctx, snapshot); err != nil {
		s.logger.Warn("Failed to update realtime cache",
			zap.String("session_id", sess.ID()),
			zap.Error(err),
		)
	}

	event := &models.SessionEvent{
		EventType: models.EventQualityChanged,
		SessionID: sess.ID(),
		CameraID:  sess.CameraID(),
		Timestamp: time.Now().Unix(),
		Quality:   &q,
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish quality event",
			zap.String("session_id", sess.ID()),
			zap.Error(err),
		)
	}
}

// recordVitals 测量结果的下游处理：持久化 + 发布
func (s *MonitorService) recordVitals(sess *session.Session, r models.VitalsReading) {
	if sess == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.vitalsRepo.InsertReading(sess.ID(), sess.CameraID(), &r, sess.SignalQuality()); err != nil {
		s.logger.Warn("Failed to persist vitals reading",
			zap.String("session_id", sess.ID()),
			zap.Error(err),
		)
	}

	event := &models.SessionEvent{
		EventType: models.EventVitalsUpdated,
		SessionID: sess.ID(),
		CameraID:  sess.CameraID(),
		Timestamp: time.Now().Unix(),
		Vitals:    &r,
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish vitals event",
			zap.String("session_id", sess.ID()),
			zap.Error(err),
		)
	}
}

// publishLifecycle 发布会话生命周期事件
func (s *MonitorService) publishLifecycle(sess *session.Session, eventType models.EventType) {
	if sess == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	event := &models.SessionEvent{
		EventType: eventType,
		SessionID: sess.ID(),
		CameraID:  sess.CameraID(),
		Timestamp: time.Now().Unix(),
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish lifecycle event",
			zap.String("session_id", sess.ID()),
			zap.String("event_type", string(eventType)),
			zap.Error(err),
		)
	}
}

// SessionReadings 查询会话的测量记录（Excel 报告由 report 包生成）
func (s *MonitorService) SessionReadings(sessionID string, limit int) ([]*repository.VitalsRecord, error) {
	return s.vitalsRepo.GetLatestBySessionID(sessionID, limit)
}
