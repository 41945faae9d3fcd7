//go:build mobile

package utils

// IsMobile 在 gomobile 构建（-tags mobile）中恒为 true
// 查看器据此隐藏调试 HUD，并只响应触摸与原生按钮的点赞
// MobileEmulateEnv 在移动端构建中不起作用
func IsMobile() bool {
	return true
}
