package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixedSource 返回固定像素的帧来源，并记录采样请求
type fixedSource struct {
	width  int
	height int
	pixel  Pixel

	sampledX, sampledY          int
	sampledWidth, sampledHeight int
}

func (f *fixedSource) FrameSize() (int, int) {
	return f.width, f.height
}

func (f *fixedSource) SamplePixels(x, y, width, height int) []Pixel {
	f.sampledX, f.sampledY = x, y
	f.sampledWidth, f.sampledHeight = width, height

	pixels := make([]Pixel, width*height)
	for i := range pixels {
		pixels[i] = f.pixel
	}
	return pixels
}

func TestAnalyze_SkinTonePositive(t *testing.T) {
	src := &fixedSource{width: 640, height: 480, pixel: Pixel{R: 80, G: 50, B: 30}}
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.True(t, analysis.FaceDetected)
	require.Len(t, analysis.RGB, 3)
	assert.InDelta(t, 80.0, analysis.RGB[0], 0.001)
	assert.InDelta(t, 50.0, analysis.RGB[1], 0.001)
	assert.InDelta(t, 30.0, analysis.RGB[2], 0.001)
	assert.InDelta(t, (80.0+50.0+30.0)/3.0, analysis.Brightness(), 0.001)
}

func TestAnalyze_GrayFrameNoFace(t *testing.T) {
	// 灰色画面：r == g，肤色启发式不成立
	src := &fixedSource{width: 640, height: 480, pixel: Pixel{R: 125, G: 125, B: 125}}
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.False(t, analysis.FaceDetected)
	assert.Len(t, analysis.RGB, 3)
}

func TestAnalyze_SmallRedGreenGapNoFace(t *testing.T) {
	// r-g 差距不足 15，判定无人脸
	src := &fixedSource{width: 640, height: 480, pixel: Pixel{R: 70, G: 60, B: 30}}
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.False(t, analysis.FaceDetected)
}

func TestAnalyze_UnavailableFrame(t *testing.T) {
	// 宽度为 0：帧不可用，按无信号处理，不报错
	src := &fixedSource{width: 0, height: 480, pixel: Pixel{R: 80, G: 50, B: 30}}
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.False(t, analysis.FaceDetected)
	assert.Empty(t, analysis.RGB)
	assert.Equal(t, 0.0, analysis.Brightness())
}

func TestAnalyze_SampleRegionCenteredAt30Percent(t *testing.T) {
	src := &fixedSource{width: 640, height: 480, pixel: Pixel{R: 80, G: 50, B: 30}}
	analyzer := NewAnalyzer(zap.NewNop())

	analyzer.Analyze(src)

	// 短边 480 的 30% = 144，居中
	assert.Equal(t, 144, src.sampledWidth)
	assert.Equal(t, 144, src.sampledHeight)
	assert.Equal(t, (640-144)/2, src.sampledX)
	assert.Equal(t, (480-144)/2, src.sampledY)
}

func TestSyntheticSource_FacePresent(t *testing.T) {
	src := NewSyntheticSource()
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.True(t, analysis.FaceDetected)
}

func TestSyntheticSource_NoFace(t *testing.T) {
	src := NewSyntheticSource()
	src.SetFacePresent(false)
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.False(t, analysis.FaceDetected)
}

func TestSyntheticSource_UnavailableFrame(t *testing.T) {
	src := NewSyntheticSource()
	src.SetFrameSize(0, 0)
	analyzer := NewAnalyzer(zap.NewNop())

	analysis := analyzer.Analyze(src)

	assert.False(t, analysis.FaceDetected)
	assert.Empty(t, analysis.RGB)
}
