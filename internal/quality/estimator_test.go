package quality

import (
	"math"
	"math/rand"
	"testing"

	"wisefido-camera-vitals/internal/frame"
	"wisefido-camera-vitals/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestEstimator() *Estimator {
	return NewEstimator(rand.New(rand.NewSource(42)))
}

func TestLightingQuality_IdealBrightness(t *testing.T) {
	assert.Equal(t, 100, LightingQuality(125))
}

func TestLightingQuality_LinearDecreaseWithinRange(t *testing.T) {
	// (50, 200) 开区间内双侧线性衰减
	assert.Equal(t, 88, LightingQuality(100)) // 100 - 25*0.5 = 87.5 → 88
	assert.Equal(t, 88, LightingQuality(150))
	assert.Equal(t, 64, LightingQuality(53.3)) // 100 - 71.7*0.5 ≈ 64.15 → 64

	// 距离 125 越远评分越低
	prev := LightingQuality(125)
	for b := 120.0; b > 55; b -= 5 {
		score := LightingQuality(b)
		assert.LessOrEqual(t, score, prev, "brightness %f", b)
		prev = score
	}
}

func TestLightingQuality_OutOfRange(t *testing.T) {
	assert.Equal(t, 30, LightingQuality(50))
	assert.Equal(t, 30, LightingQuality(200))
	assert.Equal(t, 30, LightingQuality(30))
	assert.Equal(t, 30, LightingQuality(250))
	assert.Equal(t, 30, LightingQuality(0))
}

func TestEstimate_NoFace(t *testing.T) {
	e := newTestEstimator()

	q, _ := e.Estimate(frame.Analysis{FaceDetected: false}, nil)

	assert.Equal(t, 0, q.Overall)
	assert.Equal(t, 0, q.FacePositionQuality)
	assert.False(t, q.FaceDetected)
	assert.Equal(t, RecommendPositionFace, q.Recommendation)
}

func TestEstimate_FacePresentWeightedBlend(t *testing.T) {
	e := newTestEstimator()

	analysis := frame.Analysis{
		FaceDetected: true,
		RGB:          []float64{80, 50, 30}, // brightness ≈ 53.3
	}
	q, _ := e.Estimate(analysis, nil)

	assert.True(t, q.FaceDetected)
	assert.Equal(t, 64, q.LightingQuality)
	assert.GreaterOrEqual(t, q.MotionStability, 70)
	assert.Less(t, q.MotionStability, 100)
	assert.GreaterOrEqual(t, q.FacePositionQuality, 80)
	assert.Less(t, q.FacePositionQuality, 100)

	expected := int(math.Round(
		float64(q.LightingQuality)*0.3 +
			float64(q.MotionStability)*0.3 +
			float64(q.FacePositionQuality)*0.4))
	assert.Equal(t, expected, q.Overall)
	assert.Greater(t, q.Overall, 0)
}

func TestEstimate_RecommendImproveLighting(t *testing.T) {
	e := newTestEstimator()

	// 亮度超出 (50,200)，光照评分固定 30 < 50
	analysis := frame.Analysis{
		FaceDetected: true,
		RGB:          []float64{250, 220, 180}, // brightness ≈ 216.7
	}
	q, _ := e.Estimate(analysis, nil)

	assert.Equal(t, 30, q.LightingQuality)
	assert.Equal(t, RecommendImproveLighting, q.Recommendation)
}

func TestEstimate_NoRecommendationWhenGood(t *testing.T) {
	e := newTestEstimator()

	analysis := frame.Analysis{
		FaceDetected: true,
		RGB:          []float64{160, 100, 60}, // brightness ≈ 106.7, 光照 ~91
	}
	q, _ := e.Estimate(analysis, nil)

	assert.Empty(t, q.Recommendation)
}

func TestEstimate_FaceChangeDetection(t *testing.T) {
	e := newTestEstimator()

	faceAnalysis := frame.Analysis{FaceDetected: true, RGB: []float64{80, 50, 30}}
	noFaceAnalysis := frame.Analysis{FaceDetected: false}

	// 首个 tick（prev=nil 视为此前无人脸）：检测到人脸 → 变化
	q1, changed := e.Estimate(faceAnalysis, nil)
	assert.True(t, changed)

	// 持续有人脸 → 无变化
	q2, changed := e.Estimate(faceAnalysis, &q1)
	assert.False(t, changed)

	// 人脸消失 → 变化
	q3, changed := e.Estimate(noFaceAnalysis, &q2)
	assert.True(t, changed)

	// 持续无人脸 → 无变化
	_, changed = e.Estimate(noFaceAnalysis, &q3)
	assert.False(t, changed)

	// 首个 tick 无人脸 → 无变化
	_, changed = e.Estimate(noFaceAnalysis, nil)
	assert.False(t, changed)
}

func TestEstimate_InvariantOverallZeroWithoutFace(t *testing.T) {
	e := newTestEstimator()

	var prev *models.SignalQuality
	for i := 0; i < 50; i++ {
		q, _ := e.Estimate(frame.Analysis{FaceDetected: false, RGB: []float64{125, 125, 125}}, prev)
		assert.Equal(t, 0, q.Overall)
		assert.Equal(t, 0, q.FacePositionQuality)
		prev = &q
	}
}
