package models

// EventType camera-vitals:event:stream 消息类型
type EventType string

const (
	EventVitalsUpdated      EventType = "vitals_updated"
	EventQualityChanged     EventType = "quality_changed"
	EventMeasurementStarted EventType = "measurement_started"
	EventMeasurementStopped EventType = "measurement_stopped"
	EventSessionReady       EventType = "session_ready"
)

// SessionEvent 发布到 Redis Streams 的事件封装
// 这是 wisefido-camera-vitals 发布到 camera-vitals:event:stream 的消息格式
type SessionEvent struct {
	EventType EventType      `json:"event_type"`
	SessionID string         `json:"session_id"`
	CameraID  string         `json:"camera_id"`
	Timestamp int64          `json:"timestamp"`
	Quality   *SignalQuality `json:"quality,omitempty"`
	Vitals    *VitalsReading `json:"vitals,omitempty"`
}
