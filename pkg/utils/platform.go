//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false，除非设置了 MobileEmulateEnv
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
