package game

import (
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时目录中打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if !s.SoundEnabled {
		t.Error("SoundEnabled: got false, want true")
	}
	if s.SoundVolume != 0.6 {
		t.Errorf("SoundVolume: got %v, want 0.6", s.SoundVolume)
	}
	if s.AutoPlay {
		t.Error("AutoPlay: got true, want false")
	}
	if got := s.AutoPlayInterval(); got != 400*time.Millisecond {
		t.Errorf("AutoPlayInterval: got %v, want 400ms", got)
	}
	if s.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm == nil {
		t.Fatal("NewSettingsManager(nil) returned nil")
	}
	if sm.GetSettings() == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}

	sm.SetAutoPlay(true)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode: got %v, want nil", err)
	}
	// 降级模式下 Load 恢复默认
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode: got %v, want nil", err)
	}
	if sm.GetSettings().AutoPlay {
		t.Error("Load() in degraded mode should reset to defaults")
	}
}

// TestSettingsLoadSave 测试设置的持久化往返
func TestSettingsLoadSave(t *testing.T) {
	gm := openTestGdata(t, "likefx_settings_test")

	sm := NewSettingsManager(gm)
	sm.SetSoundEnabled(false)
	sm.SetSoundVolume(0.25)
	sm.SetAutoPlay(true)
	sm.SetAutoPlayInterval(150 * time.Millisecond)
	sm.SetFullscreen(true)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewSettingsManager(gm)
	s := reloaded.GetSettings()
	if s.SoundEnabled {
		t.Error("SoundEnabled not persisted")
	}
	if s.SoundVolume != 0.25 {
		t.Errorf("SoundVolume: got %v, want 0.25", s.SoundVolume)
	}
	if !s.AutoPlay {
		t.Error("AutoPlay not persisted")
	}
	if got := s.AutoPlayInterval(); got != 150*time.Millisecond {
		t.Errorf("AutoPlayInterval: got %v, want 150ms", got)
	}
	if !s.Fullscreen {
		t.Error("Fullscreen not persisted")
	}
}

// TestLoadCorruptSettings 测试损坏的设置文件回退到默认值
func TestLoadCorruptSettings(t *testing.T) {
	gm := openTestGdata(t, "likefx_settings_corrupt")
	if err := gm.SaveObjectProp(settingsObject, settingsProperty, []byte("soundVolume: [oops")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := &SettingsManager{gdataManager: gm, settings: DefaultSettings()}
	if err := sm.Load(); err == nil {
		t.Error("Load() of corrupt data: expected error")
	}
	if *sm.GetSettings() != *DefaultSettings() {
		t.Errorf("corrupt load should fall back to defaults, got %+v", *sm.GetSettings())
	}
}

// TestLoadPartialSettings 旧版本文件缺失的字段保持默认值
func TestLoadPartialSettings(t *testing.T) {
	gm := openTestGdata(t, "likefx_settings_partial")
	if err := gm.SaveObjectProp(settingsObject, settingsProperty, []byte("autoPlay: true\nsoundVolume: 7\n")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	s := NewSettingsManager(gm).GetSettings()
	if !s.AutoPlay {
		t.Error("AutoPlay: got false, want true")
	}
	if !s.SoundEnabled {
		t.Error("SoundEnabled should keep default true")
	}
	if s.SoundVolume != 1.0 {
		t.Errorf("SoundVolume should be clamped to 1.0, got %v", s.SoundVolume)
	}
	if s.AutoPlayIntervalMs != 400 {
		t.Errorf("AutoPlayIntervalMs should keep default 400, got %d", s.AutoPlayIntervalMs)
	}
}

func TestSetSoundVolumeClamp(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"正常值", 0.5, 0.5},
		{"最小值", 0.0, 0.0},
		{"最大值", 1.0, 1.0},
		{"负数", -0.5, 0.0},
		{"超过最大值", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSettingsManager(nil)
			sm.SetSoundVolume(tt.input)
			if got := sm.GetSettings().SoundVolume; got != tt.want {
				t.Errorf("SetSoundVolume(%v): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAutoPlayIntervalClamp(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  time.Duration
	}{
		{"正常值", 250 * time.Millisecond, 250 * time.Millisecond},
		{"过短", time.Millisecond, MinAutoPlayInterval},
		{"过长", time.Minute, MaxAutoPlayInterval},
		{"负数", -time.Second, MinAutoPlayInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSettingsManager(nil)
			sm.SetAutoPlayInterval(tt.input)
			if got := sm.GetSettings().AutoPlayInterval(); got != tt.want {
				t.Errorf("SetAutoPlayInterval(%v): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	// 直接写入的越界值在读取时夹取
	s := &ViewerSettings{AutoPlayIntervalMs: 0}
	if got := s.AutoPlayInterval(); got != MinAutoPlayInterval {
		t.Errorf("zero interval: got %v, want %v", got, MinAutoPlayInterval)
	}
}
