package components

import (
	"github.com/decker502/likefx/pkg/curve"
	"github.com/decker502/likefx/pkg/utils"
)

// LikePhase is the lifecycle phase of a like particle.
//
// 状态机严格按顺序推进，不可回退：
//
//	Created → Entering → Travelling → Completed
//
// 强制取消可以从任意未完成状态直接跳到 Completed。
type LikePhase int

const (
	// LikePhaseCreated 已创建，尚未开始入场动画
	LikePhaseCreated LikePhase = iota
	// LikePhaseEntering 入场：透明度 0.3→1，缩放 0.2→1，位置停留在起点
	LikePhaseEntering
	// LikePhaseTravelling 沿贝塞尔曲线飘动，透明度 1→0
	LikePhaseTravelling
	// LikePhaseCompleted 已完成或被取消，等待从容器移除
	LikePhaseCompleted
)

func (p LikePhase) String() string {
	switch p {
	case LikePhaseCreated:
		return "Created"
	case LikePhaseEntering:
		return "Entering"
	case LikePhaseTravelling:
		return "Travelling"
	case LikePhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// CanTransitionTo reports whether moving from p to next is a legal transition.
func (p LikePhase) CanTransitionTo(next LikePhase) bool {
	if p == LikePhaseCompleted {
		return false
	}
	if next == LikePhaseCompleted {
		return true
	}
	return next == p+1
}

// LikeParticleComponent holds the immutable path and the animation clock of one
// like particle. Per-frame visual output lives in PositionComponent and
// LikeVisualComponent.
type LikeParticleComponent struct {
	// Path 生成后不可变；容器尺寸变化不影响已在飞行中的粒子
	Path curve.Path
	// Evaluator 绑定 Path 的两个拐点
	Evaluator *curve.Evaluator
	// Easing 创建时随机选定，生命周期内不变
	Easing utils.EasingKind

	// 时长（秒）
	EntryDuration  float64
	TravelDuration float64

	// Phase 当前状态
	Phase LikePhase
	// PhaseElapsed 当前状态已经过的时间（秒）
	PhaseElapsed float64

	// Cancelled 为 true 表示粒子经由强制取消而非自然结束
	Cancelled bool
}
