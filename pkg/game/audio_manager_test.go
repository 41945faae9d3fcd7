package game

import "testing"

// 无音频上下文时所有播放调用静默失败
func TestAudioManager_NilContextIsSilent(t *testing.T) {
	am := NewAudioManager(nil, NewSettingsManager(nil))
	am.BeginFrame()
	if am.PlayPop() {
		t.Error("PlayPop() with nil context: got true, want false")
	}
	am.Close()
}

func TestAudioManager_SettingsLookup(t *testing.T) {
	sm := NewSettingsManager(nil)
	am := NewAudioManager(nil, sm)

	if !am.soundEnabled() {
		t.Error("soundEnabled() should follow default true")
	}
	sm.SetSoundEnabled(false)
	if am.soundEnabled() {
		t.Error("soundEnabled() should follow settings")
	}
	sm.SetSoundVolume(0.3)
	if got := am.soundVolume(); got != 0.3 {
		t.Errorf("soundVolume() = %v, want 0.3", got)
	}

	// 没有设置管理器时使用默认值
	bare := NewAudioManager(nil, nil)
	if !bare.soundEnabled() {
		t.Error("soundEnabled() without settings should be true")
	}
	if got := bare.soundVolume(); got != DefaultSettings().SoundVolume {
		t.Errorf("soundVolume() without settings = %v", got)
	}
}
