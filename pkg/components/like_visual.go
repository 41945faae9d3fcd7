package components

// LikeVisualComponent 点赞图标的每帧视觉状态
type LikeVisualComponent struct {
	Alpha float64 // 0 = 完全透明, 1 = 完全不透明
	Scale float64 // 1.0 = 原始大小
}
