package frame

import (
	"math"
	"sync"
)

// SyntheticSource 合成帧来源
//
// 模拟模式和单元测试使用：按配置生成有人脸（肤色基底）或
// 无人脸（灰色基底）的帧，叠加确定性噪声。
type SyntheticSource struct {
	mu sync.Mutex

	width  int
	height int
	// 有人脸时使用肤色基底，否则为灰色基底
	facePresent bool
	// 基底亮度（0-255），决定画面整体明暗
	brightness float64
	// 帧计数，用于噪声相位
	frameCount int
}

// NewSyntheticSource 创建合成帧来源
// 默认 640x480、有人脸、中等亮度
func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{
		width:       640,
		height:      480,
		facePresent: true,
		brightness:  125,
	}
}

// SetFrameSize 设置帧尺寸（宽或高为 0 可模拟帧不可用）
func (s *SyntheticSource) SetFrameSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

// SetFacePresent 设置是否有人脸
func (s *SyntheticSource) SetFacePresent(present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facePresent = present
}

// SetBrightness 设置基底亮度（0-255）
func (s *SyntheticSource) SetBrightness(brightness float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = brightness
}

// FrameSize 返回当前帧尺寸
func (s *SyntheticSource) FrameSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SamplePixels 生成采样区域的合成像素
func (s *SyntheticSource) SamplePixels(x, y, width, height int) []Pixel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width <= 0 || height <= 0 {
		return nil
	}

	s.frameCount++

	// 基底颜色：肤色按 1.28/0.8/0.48 比例缩放亮度，灰色三通道相同
	var baseR, baseG, baseB float64
	if s.facePresent {
		baseR = clampChannel(s.brightness * 1.28)
		baseG = clampChannel(s.brightness * 0.80)
		baseB = clampChannel(s.brightness * 0.48)
	} else {
		baseR = clampChannel(s.brightness)
		baseG = clampChannel(s.brightness)
		baseB = clampChannel(s.brightness)
	}

	pixels := make([]Pixel, 0, width*height)
	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			// 确定性噪声，幅度 ±3
			t := float64(s.frameCount*7919+py*width+px) * 0.0137
			n := 3.0 * (2*fract(math.Sin(t)*43758.5453) - 1)
			pixels = append(pixels, Pixel{
				R: uint8(clampChannel(baseR + n)),
				G: uint8(clampChannel(baseG + n)),
				B: uint8(clampChannel(baseB + n)),
			})
		}
	}
	return pixels
}

func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func fract(x float64) float64 { return x - math.Floor(x) }
