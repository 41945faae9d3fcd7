//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 设置目录存在并可写
// gdata 在 Android 上使用 /data/data/{package}/ 作为根目录，但不会预先创建应用子目录
func EnsureStorageDir(appName string) error {
	dir := GetStoragePath(appName)
	if dir == "" {
		return fmt.Errorf("failed to detect Android package for %s", appName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// GetStoragePath 返回 /data/data/{package}/{appName}，检测失败时返回空字符串
func GetStoragePath(appName string) string {
	pkg, err := androidPackage()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", pkg, appName)
}

// androidPackage 从 /proc/self/cmdline 读取应用包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	// cmdline 以 NUL 分隔，第一段是包名
	name, _, _ := strings.Cut(string(data), "\x00")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
