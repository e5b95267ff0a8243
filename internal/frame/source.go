// Package frame 提供视频帧采样与人脸存在性分析
//
// 主要功能：
// - FrameSource：帧来源抽象（真实摄像头接入或合成帧）
// - Analyzer：对帧中心采样区域做颜色统计，输出人脸存在性判断
// - SyntheticSource：合成帧来源（测试与模拟模式使用）
package frame

// Pixel RGB 像素
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

// FrameSource 帧来源抽象
//
// 宿主负责摄像头采集，本服务只读取帧数据。
// 帧不可用时（如视频宽度为 0）按"无信号"处理，不是错误。
type FrameSource interface {
	// FrameSize 返回当前帧的宽高（像素）。宽或高为 0 表示帧不可用。
	FrameSize() (width, height int)
	// SamplePixels 采样指定矩形区域的像素
	SamplePixels(x, y, width, height int) []Pixel
}
