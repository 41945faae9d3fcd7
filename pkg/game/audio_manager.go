package game

import (
	"log"

	likeaudio "github.com/decker502/likefx/internal/audio"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// popVoices 同时发声的"啵"声数量，密集点赞时轮流复用
const popVoices = 4

// AudioManager 音频管理器
// 职责：
//   - 为每个新产生的点赞播放一次合成的"啵"声
//   - 从 SettingsManager 读取开关与音量
//
// audioContext 为 nil 时所有播放调用静默返回 false（测试与无声卡环境）
type AudioManager struct {
	audioContext    *audio.Context
	settingsManager *SettingsManager

	players  []*audio.Player
	next     int
	popBytes []byte

	// 同一帧内只响一次，避免突发点赞叠成噪音
	playedThisFrame bool
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: Ebitengine 音频上下文，可为 nil
//   - sm: SettingsManager 实例（可为 nil，此时总是播放且使用默认音量）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	am := &AudioManager{
		audioContext:    ctx,
		settingsManager: sm,
	}
	if ctx != nil {
		am.popBytes = likeaudio.NewPopStream(ctx.SampleRate()).Bytes()
	}
	return am
}

// BeginFrame 在每帧开始时调用，重置单帧发声限制
func (am *AudioManager) BeginFrame() {
	am.playedThisFrame = false
}

// PlayPop 播放一次点赞音效
//
// 返回：
//   - bool: 是否真正发声
func (am *AudioManager) PlayPop() bool {
	if am.audioContext == nil || am.playedThisFrame {
		return false
	}
	if !am.soundEnabled() {
		return false
	}

	player := am.nextPlayer()
	if player == nil {
		return false
	}

	player.SetVolume(am.soundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind pop: %v", err)
	}
	player.Play()

	am.playedThisFrame = true
	return true
}

// nextPlayer 轮流取一个播放器，首次使用时创建
func (am *AudioManager) nextPlayer() *audio.Player {
	if len(am.players) < popVoices {
		p := am.audioContext.NewPlayerFromBytes(am.popBytes)
		am.players = append(am.players, p)
		return p
	}
	p := am.players[am.next]
	am.next = (am.next + 1) % len(am.players)
	return p
}

func (am *AudioManager) soundEnabled() bool {
	if am.settingsManager == nil {
		return true
	}
	return am.settingsManager.GetSettings().SoundEnabled
}

func (am *AudioManager) soundVolume() float64 {
	if am.settingsManager == nil {
		return DefaultSettings().SoundVolume
	}
	return am.settingsManager.GetSettings().SoundVolume
}

// Close 释放所有播放器
func (am *AudioManager) Close() {
	for _, p := range am.players {
		if err := p.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
		}
	}
	am.players = nil
	am.next = 0
}
