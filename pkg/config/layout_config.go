package config

// 布局配置常量
// 本文件定义查看器窗口和点赞容器的布局参数

const (
	// GameWindowWidth 查看器逻辑宽度（像素）
	GameWindowWidth = 480

	// GameWindowHeight 查看器逻辑高度（像素）
	GameWindowHeight = 800

	// StagePadding 点赞容器与窗口边缘的间距
	StagePadding = 0.0

	// LikeButtonSize 底部点赞按钮的边长
	LikeButtonSize = 64.0

	// LikeButtonMargin 点赞按钮距窗口底部的距离
	LikeButtonMargin = 24.0
)

// GetStageBounds 返回点赞容器在窗口中的范围
// 返回值：x, y, width, height
func GetStageBounds(windowWidth, windowHeight int) (float64, float64, float64, float64) {
	w := float64(windowWidth) - 2*StagePadding
	h := float64(windowHeight) - 2*StagePadding
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return StagePadding, StagePadding, w, h
}

// GetLikeButtonRect 返回点赞按钮的矩形（水平居中，贴近底部）
// 返回值：x, y, width, height
func GetLikeButtonRect(windowWidth, windowHeight int) (float64, float64, float64, float64) {
	x := float64(windowWidth)/2 - LikeButtonSize/2
	y := float64(windowHeight) - LikeButtonMargin - LikeButtonSize
	return x, y, LikeButtonSize, LikeButtonSize
}
