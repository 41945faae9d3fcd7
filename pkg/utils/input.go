// Package utils 提供通用工具函数
package utils

// PointInRect 检查点 (px, py) 是否位于矩形 [x, x+w) × [y, y+h) 内
func PointInRect(px, py, x, y, w, h float64) bool {
	return px >= x && px < x+w && py >= y && py < y+h
}
