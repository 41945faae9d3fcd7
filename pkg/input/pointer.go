// Package input 读取 Ebitengine 的鼠标与触摸输入
package input

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// AppendJustPressedPointers 追加本帧新按下的所有指针位置
// 每个新触点一个，鼠标左键一个；多指同时点击会产生多个点赞
func AppendJustPressedPointers(dst []image.Point) []image.Point {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		dst = append(dst, image.Pt(x, y))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		dst = append(dst, image.Pt(x, y))
	}
	return dst
}
