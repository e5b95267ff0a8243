// Package status 提供生命体征展示状态映射
//
// 纯函数：将指标数值映射为 {normal, warning, critical, unknown}
// 分类及对应展示颜色，供前端卡片渲染使用。
package status

import (
	"wisefido-camera-vitals/internal/models"
)

// Category 指标状态分类
type Category string

const (
	StatusNormal   Category = "normal"
	StatusWarning  Category = "warning"
	StatusCritical Category = "critical"
	StatusUnknown  Category = "unknown"
)

// HeartRateStatus 心率状态
// critical: ≤50 或 >120；warning: <60 或 >100
func HeartRateStatus(heartRate *int) Category {
	if heartRate == nil {
		return StatusUnknown
	}
	v := *heartRate
	if v <= 50 || v > 120 {
		return StatusCritical
	}
	if v < 60 || v > 100 {
		return StatusWarning
	}
	return StatusNormal
}

// SpO2Status 血氧状态
// critical: <90；warning: <95
func SpO2Status(spO2 *int) Category {
	if spO2 == nil {
		return StatusUnknown
	}
	v := *spO2
	if v < 90 {
		return StatusCritical
	}
	if v < 95 {
		return StatusWarning
	}
	return StatusNormal
}

// RespiratoryRateStatus 呼吸率状态
// critical: <8 或 >25；warning: <12 或 >20
func RespiratoryRateStatus(respiratoryRate *int) Category {
	if respiratoryRate == nil {
		return StatusUnknown
	}
	v := *respiratoryRate
	if v < 8 || v > 25 {
		return StatusCritical
	}
	if v < 12 || v > 20 {
		return StatusWarning
	}
	return StatusNormal
}

// BloodPressureStatus 血压状态
// critical: 收缩压>180 或 舒张压>120；warning: 收缩压>140 或 舒张压>90
func BloodPressureStatus(bp *models.BloodPressure) Category {
	if bp == nil {
		return StatusUnknown
	}
	if bp.Systolic > 180 || bp.Diastolic > 120 {
		return StatusCritical
	}
	if bp.Systolic > 140 || bp.Diastolic > 90 {
		return StatusWarning
	}
	return StatusNormal
}

// HRVStatus HRV状态
// critical: <20；warning: <30
func HRVStatus(hrv *int) Category {
	if hrv == nil {
		return StatusUnknown
	}
	v := *hrv
	if v < 20 {
		return StatusCritical
	}
	if v < 30 {
		return StatusWarning
	}
	return StatusNormal
}

// StressStatus 压力水平状态
// critical: >80；warning: >60
func StressStatus(stress *int) Category {
	if stress == nil {
		return StatusUnknown
	}
	v := *stress
	if v > 80 {
		return StatusCritical
	}
	if v > 60 {
		return StatusWarning
	}
	return StatusNormal
}

// Color 状态对应的展示颜色
func Color(c Category) string {
	switch c {
	case StatusNormal:
		return "#22c55e"
	case StatusWarning:
		return "#f59e0b"
	case StatusCritical:
		return "#ef4444"
	default:
		return "#9ca3af"
	}
}
