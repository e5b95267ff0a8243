// Package quality 提供信号质量评估
//
// 将帧分析结果转换为 0-100 的综合质量分与改善建议。
// 综合分权重：光照 0.3、运动稳定性 0.3、人脸位置 0.4。
package quality

import (
	"math"
	"math/rand"

	"wisefido-camera-vitals/internal/frame"
	"wisefido-camera-vitals/internal/models"
)

// 改善建议文案（按优先级）
const (
	RecommendPositionFace    = "Position your face in the camera view"
	RecommendImproveLighting = "Improve lighting conditions"
	RecommendHoldStill       = "Hold still for accurate measurement"
)

// 光照评分参数：亮度 125 为最佳，(50, 200) 开区间内线性衰减，区间外固定 30
const (
	idealBrightness    = 125.0
	brightnessLow      = 50.0
	brightnessHigh     = 200.0
	outOfRangeLighting = 30
)

// 综合分权重
const (
	weightLighting     = 0.3
	weightMotion       = 0.3
	weightFacePosition = 0.4
)

// Estimator 信号质量评估器
//
// 运动稳定性当前为区间内随机值（[70,100)），是真实帧间差分
// 运动检测的占位实现；接入真实管线时需替换为帧差运动估计。
type Estimator struct {
	rng *rand.Rand
}

// NewEstimator 创建信号质量评估器
func NewEstimator(rng *rand.Rand) *Estimator {
	return &Estimator{
		rng: rng,
	}
}

// Estimate 评估当前帧的信号质量
//
// prev 为上一个 tick 的质量值（首个 tick 传 nil）。
// 人脸存在性变化的判断必须基于上一个 tick 的值，在覆盖之前比较，
// 保证每次状态翻转恰好触发一次通知。
//
// 返回:
//   - models.SignalQuality: 本 tick 的质量值
//   - bool: 人脸存在性相对上一个 tick 是否发生变化
func (e *Estimator) Estimate(analysis frame.Analysis, prev *models.SignalQuality) (models.SignalQuality, bool) {
	q := models.SignalQuality{
		FaceDetected: analysis.FaceDetected,
	}

	q.LightingQuality = LightingQuality(analysis.Brightness())

	// 运动稳定性：[70,100) 随机（占位，见包注释）
	q.MotionStability = 70 + e.rng.Intn(30)

	if analysis.FaceDetected {
		// 人脸位置质量：[80,100)
		q.FacePositionQuality = 80 + e.rng.Intn(20)
		q.Overall = int(math.Round(
			float64(q.LightingQuality)*weightLighting +
				float64(q.MotionStability)*weightMotion +
				float64(q.FacePositionQuality)*weightFacePosition))
	} else {
		q.FacePositionQuality = 0
		q.Overall = 0
	}

	q.Recommendation = recommendation(q)

	// 与上一个 tick 比较（nil 视为此前无人脸）
	prevFace := prev != nil && prev.FaceDetected
	faceChanged := prevFace != q.FaceDetected

	return q, faceChanged
}

// LightingQuality 亮度转光照评分
//
// 亮度在 (50, 200) 开区间内：100 − |亮度−125|×0.5，裁剪到 [0,100]；
// 区间外固定返回 30。
func LightingQuality(brightness float64) int {
	if brightness <= brightnessLow || brightness >= brightnessHigh {
		return outOfRangeLighting
	}
	score := 100 - math.Abs(brightness-idealBrightness)*0.5
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

// recommendation 按优先级选择改善建议
// 无人脸 > 光照不足(<50) > 运动过大(<60)，都满足时无建议
func recommendation(q models.SignalQuality) string {
	if !q.FaceDetected {
		return RecommendPositionFace
	}
	if q.LightingQuality < 50 {
		return RecommendImproveLighting
	}
	if q.MotionStability < 60 {
		return RecommendHoldStill
	}
	return ""
}
