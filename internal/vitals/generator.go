// Package vitals 提供合成生命体征生成
//
// 这是真实 rPPG 提取管线（滑动窗口上的色度/亮度信号谱分析）的
// 占位实现：每项指标由领域合理的基准值 + tick 正弦项 + 有界随机
// 噪声合成。接入生产环境时必须替换为真实的信号处理。
package vitals

import (
	"math"
	"math/rand"
	"time"

	"wisefido-camera-vitals/internal/models"
)

// Generator 生命体征生成器
type Generator struct {
	rng *rand.Rand
	// 是否生成 HRV（可通过配置关闭）
	enableHRV bool
	// 时间来源，便于测试固定时间戳
	now func() time.Time
}

// NewGenerator 创建生命体征生成器
func NewGenerator(rng *rand.Rand, enableHRV bool) *Generator {
	return &Generator{
		rng:       rng,
		enableHRV: enableHRV,
		now:       time.Now,
	}
}

// Generate 生成一条测量结果
//
// faceDetected 为 false 时所有指标为 nil、置信度全为 0。
// tick 为单调递增的测量计数，驱动各指标的正弦漂移。
//
// 各指标范围：
//   - 心率: round(72 + 5·sin(0.1·tick) + U(−2,2))，约 72±9 bpm
//   - SpO2: 96-98%
//   - 呼吸率: 14-17 次/分
//   - 血压: 收缩压 115-129 / 舒张压 75-84 mmHg
//   - 压力水平: 30-69%
//   - HRV: 40-69 ms
func (g *Generator) Generate(tick int, faceDetected bool) *models.VitalsReading {
	reading := &models.VitalsReading{
		Timestamp: g.now().Unix(),
	}

	if !faceDetected {
		return reading
	}

	heartRate := int(math.Round(72 + 5*math.Sin(0.1*float64(tick)) + g.uniform(-2, 2)))
	spO2 := 96 + g.rng.Intn(3)
	respiratoryRate := 14 + g.rng.Intn(4)
	bp := &models.BloodPressure{
		Systolic:  115 + g.rng.Intn(15),
		Diastolic: 75 + g.rng.Intn(10),
	}
	stress := 30 + g.rng.Intn(40)

	reading.HeartRate = &heartRate
	reading.SpO2 = &spO2
	reading.RespiratoryRate = &respiratoryRate
	reading.BloodPressure = bp
	reading.StressLevel = &stress

	reading.Confidence = models.VitalsConfidence{
		HeartRate:       0.85 + g.rng.Float64()*0.10,
		SpO2:            0.90 + g.rng.Float64()*0.08,
		RespiratoryRate: 0.80 + g.rng.Float64()*0.10,
		BloodPressure:   0.75 + g.rng.Float64()*0.10,
		StressLevel:     0.70 + g.rng.Float64()*0.15,
	}

	if g.enableHRV {
		hrv := 40 + g.rng.Intn(30)
		reading.HRV = &hrv
		reading.Confidence.HRV = 0.80 + g.rng.Float64()*0.12
	}

	return reading
}

// uniform [min, max) 均匀随机
func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}
