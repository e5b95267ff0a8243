package frame

import (
	"go.uber.org/zap"
)

// 人脸肤色启发式阈值
// 采样区域通道均值满足以下全部条件时判定为有人脸：
// r > 60, g > 40, b > 20, r > g, r > b, |r - g| > 15
const (
	minRedMean     = 60.0
	minGreenMean   = 40.0
	minBlueMean    = 20.0
	minRedGreenGap = 15.0
)

// 采样区域边长占帧短边的比例
const sampleRegionRatio = 0.3

// Analysis 帧分析结果
type Analysis struct {
	FaceDetected bool
	// RGB 采样区域的通道均值 [r, g, b]；帧不可用时为空
	RGB []float64
}

// Brightness 采样区域亮度（RGB 均值的均值）
// RGB 为空时返回 0
func (a Analysis) Brightness() float64 {
	if len(a.RGB) != 3 {
		return 0
	}
	return (a.RGB[0] + a.RGB[1] + a.RGB[2]) / 3.0
}

// Analyzer 帧分析器
//
// 对帧中心的正方形采样区域（边长为短边的 30%）做通道均值统计，
// 用粗略的肤色启发式判断人脸是否在画面中。
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer 创建帧分析器
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{
		logger: logger,
	}
}

// Analyze 分析当前帧
//
// 帧不可用（宽或高为 0、采样为空）时返回 FaceDetected=false、RGB 为空，
// 不报错——按正常的"无信号"状态处理。
func (a *Analyzer) Analyze(src FrameSource) Analysis {
	width, height := src.FrameSize()
	if width <= 0 || height <= 0 {
		a.logger.Debug("Frame unavailable, treating as no signal",
			zap.Int("width", width),
			zap.Int("height", height),
		)
		return Analysis{FaceDetected: false}
	}

	// 中心正方形采样区域，边长为短边的 30%
	shorter := width
	if height < width {
		shorter = height
	}
	size := int(float64(shorter) * sampleRegionRatio)
	if size < 1 {
		size = 1
	}
	x := (width - size) / 2
	y := (height - size) / 2

	pixels := src.SamplePixels(x, y, size, size)
	if len(pixels) == 0 {
		a.logger.Debug("Empty pixel sample, treating as no signal")
		return Analysis{FaceDetected: false}
	}

	var sumR, sumG, sumB float64
	for _, p := range pixels {
		sumR += float64(p.R)
		sumG += float64(p.G)
		sumB += float64(p.B)
	}
	n := float64(len(pixels))
	r := sumR / n
	g := sumG / n
	b := sumB / n

	faceDetected := r > minRedMean &&
		g > minGreenMean &&
		b > minBlueMean &&
		r > g &&
		r > b &&
		r-g > minRedGreenGap

	return Analysis{
		FaceDetected: faceDetected,
		RGB:          []float64{r, g, b},
	}
}
