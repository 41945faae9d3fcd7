package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 自动播放间隔的合法范围
const (
	MinAutoPlayInterval = 50 * time.Millisecond
	MaxAutoPlayInterval = 10 * time.Second
)

// ViewerSettings 点赞动效查看器的用户偏好
// 与动画参数（likefx.yaml）分开保存，只记录用户在界面上切换的开关
type ViewerSettings struct {
	SoundEnabled bool    `yaml:"soundEnabled"` // 每个点赞播放一次"啵"声
	SoundVolume  float64 `yaml:"soundVolume"`  // 0.0 ~ 1.0

	AutoPlay           bool `yaml:"autoPlay"`           // 定时自动产生点赞
	AutoPlayIntervalMs int  `yaml:"autoPlayIntervalMs"` // 自动点赞间隔（毫秒）

	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		SoundEnabled:       true,
		SoundVolume:        0.6,
		AutoPlay:           false,
		AutoPlayIntervalMs: 400,
		Fullscreen:         false,
	}
}

// AutoPlayInterval 返回自动点赞间隔，越界时夹取到合法范围
func (s *ViewerSettings) AutoPlayInterval() time.Duration {
	return clampInterval(time.Duration(s.AutoPlayIntervalMs) * time.Millisecond)
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，记录日志后使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上反序列化，旧版本文件缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetSoundEnabled 设置音效开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetSoundVolume 设置音效音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetAutoPlay 设置自动点赞开关
func (sm *SettingsManager) SetAutoPlay(enabled bool) {
	sm.settings.AutoPlay = enabled
}

// SetAutoPlayInterval 设置自动点赞间隔
func (sm *SettingsManager) SetAutoPlayInterval(d time.Duration) {
	sm.settings.AutoPlayIntervalMs = int(clampInterval(d) / time.Millisecond)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinAutoPlayInterval {
		return MinAutoPlayInterval
	}
	if d > MaxAutoPlayInterval {
		return MaxAutoPlayInterval
	}
	return d
}
