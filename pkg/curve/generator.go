package curve

// RandSource is the random number generator consumed by Generator.
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// Generator produces one randomized Path per spawn, constrained to the container.
//
// 控制点规则：
//   - P0: (W/2 - iw/10, H - ih/5)，容器底部水平居中（固定，不使用随机数）
//   - P1: x ∈ [0, W), y ∈ [0, H/2)
//   - P2: x ∈ [0, W), y ∈ [H/2, H)
//   - P3: 顶部随机位置，x ∈ [0, W - iw/5), y = 0
//
// P1/P2 上下半区拆分让曲线呈 S 形上升而不会折返。
type Generator struct {
	rnd RandSource
}

// NewGenerator creates a generator drawing from rnd.
func NewGenerator(rnd RandSource) *Generator {
	return &Generator{rnd: rnd}
}

// Generate builds a path for the given container and icon sizes.
// The container size is read once here; paths already generated keep their
// points when the container is resized later.
//
// Zero or negative dimensions yield a degenerate path (all points equal to the
// start point) and leave the random source untouched.
func (g *Generator) Generate(container, icon Size) Path {
	start := StartPoint(container, icon)
	if !container.Valid() || !icon.Valid() {
		return Path{P0: start, P1: start, P2: start, P3: start}
	}

	w, h := container.W, container.H
	half := h / 2

	// 抽样顺序固定，保证相同种子生成相同曲线
	p1 := Point{X: g.uniform(w), Y: g.uniform(half)}
	p2 := Point{X: g.uniform(w), Y: g.uniform(half) + half}
	p3 := Point{X: g.uniform(w - icon.W/5), Y: 0}

	return Path{P0: start, P1: p1, P2: p2, P3: p3}
}

// uniform returns a value in [0, n). Non-positive n collapses to 0.
func (g *Generator) uniform(n float64) float64 {
	if n <= 0 {
		return 0
	}
	v := g.rnd.Float64() * n
	// Float64()*n can round up to n for large n
	if v >= n {
		v = 0
	}
	return v
}

// StartPoint returns the fixed spawn point. icon is the intrinsic image size; the
// icon is displayed at a fifth of it, so the start point centers the displayed
// box horizontally and rests it on the bottom edge. Negative dimensions are
// treated as 0.
func StartPoint(container, icon Size) Point {
	w, h := nonNegative(container.W), nonNegative(container.H)
	iw, ih := nonNegative(icon.W), nonNegative(icon.H)
	return Point{X: w/2 - iw/10, Y: h - ih/5}
}

// GenerateCurve is a convenience wrapper around Generator.Generate.
func GenerateCurve(containerWidth, containerHeight, iconWidth, iconHeight float64, rnd RandSource) Path {
	return NewGenerator(rnd).Generate(
		Size{W: containerWidth, H: containerHeight},
		Size{W: iconWidth, H: iconHeight},
	)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
