package curve

import "math"

// Path is the four control points of one cubic Bezier curve.
// P0 is the start, P3 the end, P1 and P2 the interior control points.
// A Path is built once per particle and never mutated afterwards.
type Path struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

// Evaluator returns an evaluator bound to the path's interior control points.
func (p Path) Evaluator() *Evaluator {
	return NewEvaluator(p.P1, p.P2)
}

// At evaluates the path at t using its own endpoints.
func (p Path) At(t float64) Point {
	return NewEvaluator(p.P1, p.P2).Evaluate(t, p.P0, p.P3)
}

// Degenerate reports whether all four control points coincide (zero-length path).
func (p Path) Degenerate() bool {
	return p.P0 == p.P1 && p.P1 == p.P2 && p.P2 == p.P3
}

// ChordLength returns the length of the control polygon P0→P1→P2→P3.
// It is an upper bound of the curve's arc length.
func (p Path) ChordLength() float64 {
	return dist(p.P0, p.P1) + dist(p.P1, p.P2) + dist(p.P2, p.P3)
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Evaluator evaluates a cubic Bezier curve whose interior control points are fixed
// at construction. Endpoints are supplied per call so one evaluator can serve
// several endpoint pairs.
type Evaluator struct {
	p1 Point
	p2 Point
}

// NewEvaluator creates an evaluator for the interior control points p1 and p2.
func NewEvaluator(p1, p2 Point) *Evaluator {
	return &Evaluator{p1: p1, p2: p2}
}

// Evaluate computes the cubic Bezier position at t:
//
//	B(t) = p0(1-t)³ + 3·p1·t(1-t)² + 3·p2·t²(1-t) + p3·t³
//
// t is not clamped. Values outside [0, 1] extrapolate along the Bernstein
// polynomial; callers are expected to pass t in [0, 1].
func (e *Evaluator) Evaluate(t float64, p0, p3 Point) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * t * u * u
	b2 := 3 * t * t * u
	b3 := t * t * t

	return Point{
		X: p0.X*b0 + e.p1.X*b1 + e.p2.X*b2 + p3.X*b3,
		Y: p0.Y*b0 + e.p1.Y*b1 + e.p2.Y*b2 + p3.Y*b3,
	}
}

// Derivative returns the tangent B'(t) for the given endpoints.
//
//	B'(t) = 3(1-t)²(p1-p0) + 6(1-t)t(p2-p1) + 3t²(p3-p2)
func (e *Evaluator) Derivative(t float64, p0, p3 Point) Point {
	u := 1 - t
	a := e.p1.Sub(p0).Scale(3 * u * u)
	b := e.p2.Sub(e.p1).Scale(6 * u * t)
	c := p3.Sub(e.p2).Scale(3 * t * t)
	return a.Add(b).Add(c)
}
