package session

import (
	"wisefido-camera-vitals/internal/models"
)

// Callbacks 会话事件回调
//
// 所有字段可为 nil（不关心的事件不必设置）。
// 单个 tick 内的触发顺序保证：face-detection-changed →
// quality-changed → ready（如有）→ vitals-updated（如有）。
type Callbacks struct {
	VitalsUpdated        func(models.VitalsReading)
	QualityChanged       func(models.SignalQuality)
	FaceDetectionChanged func(bool)
	MeasurementStarted   func()
	MeasurementStopped   func()
	Ready                func()
	Error                func(models.SessionError)
}

func (c Callbacks) vitalsUpdated(r models.VitalsReading) {
	if c.VitalsUpdated != nil {
		c.VitalsUpdated(r)
	}
}

func (c Callbacks) qualityChanged(q models.SignalQuality) {
	if c.QualityChanged != nil {
		c.QualityChanged(q)
	}
}

func (c Callbacks) faceDetectionChanged(detected bool) {
	if c.FaceDetectionChanged != nil {
		c.FaceDetectionChanged(detected)
	}
}

func (c Callbacks) measurementStarted() {
	if c.MeasurementStarted != nil {
		c.MeasurementStarted()
	}
}

func (c Callbacks) measurementStopped() {
	if c.MeasurementStopped != nil {
		c.MeasurementStopped()
	}
}

func (c Callbacks) ready() {
	if c.Ready != nil {
		c.Ready()
	}
}

func (c Callbacks) error(err models.SessionError) {
	if c.Error != nil {
		c.Error(err)
	}
}
