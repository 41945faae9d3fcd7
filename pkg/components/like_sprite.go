package components

// HeartVariant 选择绘制哪一种颜色的心形图标
type HeartVariant int

const (
	HeartRed HeartVariant = iota
	HeartPink
	HeartBlue
)

// LikeSpriteComponent 描述点赞图标的外观
type LikeSpriteComponent struct {
	Variant HeartVariant
	// 图标框尺寸（像素），即原始图片尺寸缩小后的显示尺寸
	Width  float64
	Height float64
}
