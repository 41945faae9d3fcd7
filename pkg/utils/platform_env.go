package utils

// MobileEmulateEnv 设置为 "1" 时桌面端按移动端模式运行（用于本地调试触屏界面）
const MobileEmulateEnv = "LIKEFX_MOBILE_EMULATE"
