package utils

import (
	"fmt"
	"math"
	"strings"
)

// Easing Functions (缓动函数)
//
// 缓动函数把线性的时间进度映射为感知进度，控制点赞图标沿曲线运动的快慢。
// 所有函数接受 t ∈ [0, 1]，返回值同样落在 [0, 1]，且 f(0)=0、f(1)=1。

// EasingKind identifies one of the easing variants a like particle may use.
type EasingKind int

const (
	// EasingLinear 匀速
	EasingLinear EasingKind = iota
	// EasingAccelerateDecelerate 先加速后减速（余弦曲线）
	EasingAccelerateDecelerate
	// EasingAccelerate 加速（二次方缓入）
	EasingAccelerate
	// EasingDecelerate 减速（二次方缓出）
	EasingDecelerate
)

// AllEasingKinds lists every variant in declaration order.
var AllEasingKinds = []EasingKind{
	EasingLinear,
	EasingAccelerateDecelerate,
	EasingAccelerate,
	EasingDecelerate,
}

var easingNames = map[EasingKind]string{
	EasingLinear:               "linear",
	EasingAccelerateDecelerate: "accelerateDecelerate",
	EasingAccelerate:           "accelerate",
	EasingDecelerate:           "decelerate",
}

// String returns the config name of the easing kind.
func (k EasingKind) String() string {
	if name, ok := easingNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EasingKind(%d)", int(k))
}

// ParseEasingKind parses a config name (case-insensitive) into an EasingKind.
func ParseEasingKind(name string) (EasingKind, error) {
	for kind, n := range easingNames {
		if strings.EqualFold(n, name) {
			return kind, nil
		}
	}
	return EasingLinear, fmt.Errorf("unknown easing %q", name)
}

// Func returns the easing function for the kind. Unknown kinds fall back to linear.
func (k EasingKind) Func() func(float64) float64 {
	switch k {
	case EasingAccelerateDecelerate:
		return EaseAccelerateDecelerate
	case EasingAccelerate:
		return EaseAccelerate
	case EasingDecelerate:
		return EaseDecelerate
	default:
		return EaseLinear
	}
}

// Evaluate applies the easing function of the kind to t.
func (k EasingKind) Evaluate(t float64) float64 {
	return k.Func()(t)
}

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseAccelerateDecelerate 开始慢，中间快，结束慢
// 公式：f(t) = cos((t+1)π)/2 + 0.5
func EaseAccelerateDecelerate(t float64) float64 {
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

// EaseAccelerate 二次方缓入，开始慢结束快
// 公式：f(t) = t²
func EaseAccelerate(t float64) float64 {
	return t * t
}

// EaseDecelerate 二次方缓出，开始快结束慢
// 公式：f(t) = 1 - (1-t)²
func EaseDecelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 把 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
