// Package session 提供测量会话状态机
//
// 每个摄像头连接对应一个 Session，由固定周期的 ticker 驱动：
// 每个 tick 依次执行 帧分析 → 信号质量评估 → （测量中且有人脸时）
// 生成测量结果，并按固定顺序触发回调。
//
// 状态流转：
//   idle → initializing → calibrating → measuring
//   calibrating/measuring → paused →（resume）→ measuring/calibrating
//   非 idle → idle（stop()）
// error 状态只由宿主通过 SetError 设置（如摄像头拒绝访问、凭证缺失），
// 会话内部条件不会自动进入 error。
package session

import (
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/frame"
	"wisefido-camera-vitals/internal/models"
	"wisefido-camera-vitals/internal/quality"
	"wisefido-camera-vitals/internal/vitals"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session 测量会话
//
// 同一时刻最多一个活动 ticker；start/stop/pause/resume 幂等，
// stop()/pause() 返回后不会再有 tick 触发。
type Session struct {
	id       string
	cameraID string

	interval         time.Duration
	calibrationTicks int

	source    frame.FrameSource
	analyzer  *frame.Analyzer
	estimator *quality.Estimator
	generator *vitals.Generator
	callbacks Callbacks
	logger    *zap.Logger
	metrics   *Metrics

	mu          sync.Mutex
	state       models.SessionState
	tickCount   int
	calibrated  bool
	lastQuality *models.SignalQuality
	lastVitals  *models.VitalsReading
	stopCh      chan struct{}
	doneCh      chan struct{}
	// 当前 run 协程的 goroutine id，用于识别回调内的控制调用
	runGID uint64
}

// NewSession 创建测量会话
func NewSession(
	cfg *config.Config,
	cameraID string,
	source frame.FrameSource,
	callbacks Callbacks,
	logger *zap.Logger,
) *Session {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	interval := time.Duration(cfg.Monitor.IntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	calibrationTicks := cfg.Monitor.CalibrationTicks
	if calibrationTicks <= 0 {
		calibrationTicks = 3
	}

	return &Session{
		id:               uuid.NewString(),
		cameraID:         cameraID,
		interval:         interval,
		calibrationTicks: calibrationTicks,
		source:           source,
		analyzer:         frame.NewAnalyzer(logger),
		estimator:        quality.NewEstimator(rng),
		generator:        vitals.NewGenerator(rng, cfg.Monitor.EnableHRV),
		callbacks:        callbacks,
		logger:           logger,
		metrics: &Metrics{
			StartTime: time.Now(),
		},
		state: models.StateIdle,
	}
}

// ID 会话唯一标识
func (s *Session) ID() string {
	return s.id
}

// CameraID 会话绑定的摄像头标识
func (s *Session) CameraID() string {
	return s.cameraID
}

// State 当前会话状态
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsActive 会话是否处于活动状态（calibrating 或 measuring）
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == models.StateCalibrating || s.state == models.StateMeasuring
}

// SignalQuality 最近一次信号质量（尚未评估时为 nil）
func (s *Session) SignalQuality() *models.SignalQuality {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastQuality == nil {
		return nil
	}
	q := *s.lastQuality
	return &q
}

// LatestVitals 最近一次测量结果（尚未产生时为 nil）
func (s *Session) LatestVitals() *models.VitalsReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastVitals == nil {
		return nil
	}
	r := *s.lastVitals
	return &r
}

// Metrics 会话指标快照
func (s *Session) Metrics() Metrics {
	return s.metrics.GetSnapshot()
}

// Start 启动测量
//
// 幂等：已在 calibrating/measuring/paused 状态时为空操作（不会产生
// 重复 ticker）。返回时 ticker 已经调度。
func (s *Session) Start() (err error) {
	defer func() {
		// 初始化过程中的意外 panic 转换为错误回调并清除校准标记
		if r := recover(); r != nil {
			s.mu.Lock()
			s.calibrated = false
			s.state = models.StateIdle
			s.mu.Unlock()
			s.logger.Error("Session start panic", zap.Any("panic", r))
			s.callbacks.error(models.SessionError{
				Code:    models.ErrCodeSDKInitFailed,
				Message: "failed to initialize measurement session",
			})
		}
	}()

	s.mu.Lock()
	if s.state != models.StateIdle && s.state != models.StateError {
		// 已启动（或暂停中，应走 Resume）
		s.mu.Unlock()
		return nil
	}
	s.state = models.StateInitializing
	s.tickCount = 0
	s.calibrated = false
	s.lastQuality = nil
	s.lastVitals = nil
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	s.stopCh = stopCh
	s.doneCh = doneCh
	s.state = models.StateCalibrating
	s.mu.Unlock()

	s.logger.Info("Measurement started",
		zap.String("session_id", s.id),
		zap.String("camera_id", s.cameraID),
		zap.Duration("interval", s.interval),
	)
	s.callbacks.measurementStarted()

	go s.run(stopCh, doneCh)
	return nil
}

// Pause 暂停测量，保留最近的质量/测量结果与校准进度
func (s *Session) Pause() {
	s.mu.Lock()
	if s.state != models.StateCalibrating && s.state != models.StateMeasuring {
		s.mu.Unlock()
		return
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.state = models.StatePaused
	s.mu.Unlock()

	s.stopTicker(stopCh, doneCh)

	s.logger.Info("Measurement paused",
		zap.String("session_id", s.id),
	)
}

// Resume 从暂停恢复测量，不重置校准进度
func (s *Session) Resume() {
	s.mu.Lock()
	if s.state != models.StatePaused {
		s.mu.Unlock()
		return
	}
	calibrated := s.calibrated
	if calibrated {
		s.state = models.StateMeasuring
	} else {
		s.state = models.StateCalibrating
	}
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	s.stopCh = stopCh
	s.doneCh = doneCh
	s.mu.Unlock()

	s.logger.Info("Measurement resumed",
		zap.String("session_id", s.id),
		zap.Bool("calibrated", calibrated),
	)

	go s.run(stopCh, doneCh)
}

// Stop 停止测量并回到 idle
//
// 幂等：已在 idle 时为空操作（不会重复触发 measurement-stopped）。
// 返回后不会再有 tick 触发；最近的质量/测量结果在下一次 Start 前
// 仍可查询。
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == models.StateIdle {
		s.mu.Unlock()
		return
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.state = models.StateIdle
	s.mu.Unlock()

	s.stopTicker(stopCh, doneCh)

	s.logger.Info("Measurement stopped",
		zap.String("session_id", s.id),
	)
	s.callbacks.measurementStopped()
}

// SetError 由宿主设置错误状态（如摄像头拒绝访问、凭证无效）
// 会话内部不会自动进入 error 状态
func (s *Session) SetError(sessionErr models.SessionError) {
	s.mu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.state = models.StateError
	s.calibrated = false
	s.mu.Unlock()

	s.stopTicker(stopCh, doneCh)

	s.logger.Warn("Session entered error state",
		zap.String("session_id", s.id),
		zap.String("code", string(sessionErr.Code)),
		zap.String("message", sessionErr.Message),
	)
	s.callbacks.error(sessionErr)
}

// stopTicker 同步停止 ticker 协程（等待当前 tick 完成）
//
// 回调内调用 Stop/Pause/SetError 时执行在 run 协程自身上，等待
// doneCh 会永久阻塞（run 协程正停在回调里）；此时只发停止信号、
// 不等待，由 tick 在回调返回后通过状态检查结束本轮。
func (s *Session) stopTicker(stopCh, doneCh chan struct{}) {
	if stopCh == nil {
		return
	}
	close(stopCh)

	s.mu.Lock()
	self := s.runGID != 0 && s.runGID == currentGoroutineID()
	s.mu.Unlock()
	if self {
		return
	}

	<-doneCh
}

// currentGoroutineID 从 runtime.Stack 首行解析当前 goroutine id
func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	// 首行格式: "goroutine 123 [running]:"
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// run ticker 循环，收到停止信号后退出
func (s *Session) run(stopCh, doneCh chan struct{}) {
	gid := currentGoroutineID()
	s.mu.Lock()
	s.runGID = gid
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.runGID == gid {
			s.runGID = 0
		}
		s.mu.Unlock()
		close(doneCh)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// 停止优先于本轮 tick
			select {
			case <-stopCh:
				return
			default:
			}
			s.tick()
		}
	}
}

// tick 单次测量处理
//
// calibrating：帧分析 → 质量评估；到达校准 tick 阈值时转入
// measuring 并触发 ready（该 tick 不产生测量结果）。
// measuring：帧分析 → 质量评估 →（有人脸时）生成测量结果。
// 回调顺序：face-detection-changed → quality-changed → ready →
// vitals-updated。
func (s *Session) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.IncrementTickError()
			s.logger.Error("Measurement tick failed",
				zap.String("session_id", s.id),
				zap.Any("panic", r),
			)
			s.callbacks.error(models.SessionError{
				Code:    models.ErrCodeMeasurementFailed,
				Message: "measurement tick failed",
			})
		}
	}()

	s.mu.Lock()
	if s.state != models.StateCalibrating && s.state != models.StateMeasuring {
		s.mu.Unlock()
		return
	}
	s.tickCount++
	tick := s.tickCount
	measuring := s.state == models.StateMeasuring
	prev := s.lastQuality
	s.mu.Unlock()

	s.metrics.IncrementTick()

	analysis := s.analyzer.Analyze(s.source)
	q, faceChanged := s.estimator.Estimate(analysis, prev)
	if !q.FaceDetected {
		s.metrics.IncrementNoFace()
	}

	var reading *models.VitalsReading
	if measuring && q.FaceDetected {
		reading = s.generator.Generate(tick, true)
	}

	becameReady := false
	s.mu.Lock()
	// 分析期间状态可能被 Stop/Pause 修改，丢弃本轮结果
	if s.state != models.StateCalibrating && s.state != models.StateMeasuring {
		s.mu.Unlock()
		return
	}
	s.lastQuality = &q
	if reading != nil {
		s.lastVitals = reading
	}
	if s.state == models.StateCalibrating && tick >= s.calibrationTicks {
		s.state = models.StateMeasuring
		s.calibrated = true
		becameReady = true
	}
	s.mu.Unlock()

	if reading != nil {
		s.metrics.IncrementVitals()
	}

	// 回调内可能调用 Stop/Pause/SetError；每次回调返回后重新检查
	// 状态，离开活动状态则丢弃本轮剩余回调
	if faceChanged {
		s.callbacks.faceDetectionChanged(q.FaceDetected)
		if !s.IsActive() {
			return
		}
	}
	s.callbacks.qualityChanged(q)
	if !s.IsActive() {
		return
	}
	if becameReady {
		s.logger.Info("Calibration complete, measuring",
			zap.String("session_id", s.id),
			zap.Int("calibration_ticks", s.calibrationTicks),
		)
		s.callbacks.ready()
		if !s.IsActive() {
			return
		}
	}
	if reading != nil {
		s.callbacks.vitalsUpdated(*reading)
	}
}
