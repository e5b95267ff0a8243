package models

// BloodPressure 血压读数（收缩压/舒张压，mmHg）
type BloodPressure struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// VitalsConfidence 每项指标的置信度（0-1）
// 无人脸时所有置信度为 0
type VitalsConfidence struct {
	HeartRate       float64 `json:"heart_rate"`
	SpO2            float64 `json:"spo2"`
	RespiratoryRate float64 `json:"respiratory_rate"`
	BloodPressure   float64 `json:"blood_pressure"`
	StressLevel     float64 `json:"stress_level"`
	HRV             float64 `json:"hrv"`
}

// VitalsReading 单次测量结果
//
// 每个测量 tick 最多产生一条记录，整体替换上一条（不做字段合并）。
// 无人脸时所有指标字段为 nil，置信度全为 0。
type VitalsReading struct {
	HeartRate       *int             `json:"heart_rate"`       // bpm
	SpO2            *int             `json:"spo2"`             // %
	RespiratoryRate *int             `json:"respiratory_rate"` // 次/分
	BloodPressure   *BloodPressure   `json:"blood_pressure"`
	StressLevel     *int             `json:"stress_level"` // %
	HRV             *int             `json:"hrv"`          // ms
	Confidence      VitalsConfidence `json:"confidence"`
	Timestamp       int64            `json:"timestamp"` // Unix 秒
}

// HasValues 是否包含有效指标（检测到人脸时为 true）
func (r *VitalsReading) HasValues() bool {
	return r != nil && r.HeartRate != nil
}

// SignalQuality 信号质量评估结果
//
// 每个 tick 重新计算并整体覆盖上一次的值。
// 不变量：FaceDetected 为 false 时 Overall 必为 0。
type SignalQuality struct {
	Overall             int    `json:"overall"` // 0-100
	FaceDetected        bool   `json:"face_detected"`
	FacePositionQuality int    `json:"face_position_quality"` // 0-100
	LightingQuality     int    `json:"lighting_quality"`      // 0-100
	MotionStability     int    `json:"motion_stability"`      // 0-100
	Recommendation      string `json:"recommendation,omitempty"`
}
