//go:build !android

package utils

// EnsureStorageDir 确保设置存储目录存在（非 Android 平台的空实现）
// gdata 在非 Android 平台上会自动创建存储目录
func EnsureStorageDir(appName string) error {
	return nil
}

// GetStoragePath 获取存储路径（非 Android 平台由 gdata 决定，返回空字符串）
func GetStoragePath(appName string) string {
	return ""
}
