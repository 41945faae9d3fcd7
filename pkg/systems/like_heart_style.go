package systems

import (
	"image/color"

	"github.com/decker502/likefx/pkg/components"
)

// DefaultHeartColor 调色板为空时的兜底颜色
var DefaultHeartColor = color.RGBA{R: 0xF2, G: 0x33, B: 0x4D, A: 0xFF}

// HeartBox 返回以图标框中心缩放后的绘制区域
func HeartBox(x, y, w, h, scale float64) (left, top, width, height float64) {
	width = w * scale
	height = h * scale
	left = x + (w-width)/2
	top = y + (h-height)/2
	return left, top, width, height
}

// HeartColor 按变体选取调色板颜色并乘以透明度
// 返回 0~1 的直通 alpha 分量，窗口渲染用作顶点颜色，终端宿主换算为字符颜色
func HeartColor(palette []color.RGBA, variant components.HeartVariant, alpha float64) (r, g, b, a float32) {
	c := DefaultHeartColor
	if len(palette) > 0 {
		idx := int(variant) % len(palette)
		if idx < 0 {
			idx += len(palette)
		}
		c = palette[idx]
	}
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return float32(c.R) / 0xff, float32(c.G) / 0xff, float32(c.B) / 0xff, float32(c.A) / 0xff * float32(alpha)
}
