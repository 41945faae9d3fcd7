// Package curve builds and evaluates the cubic Bezier paths that like icons follow.
//
// 每个点赞图标沿一条三次贝塞尔曲线从容器底部飘到顶部：
//   - Generator 根据容器尺寸和图标尺寸生成四个控制点（起点、两个随机拐点、终点）
//   - Evaluator 绑定两个拐点，在任意进度 t 上计算曲线坐标
//
// 坐标系与屏幕一致：原点在容器左上角，Y 轴向下。
package curve

// Point is an immutable 2D coordinate in container space.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by k on both axes.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Size describes the width and height of a container or an icon.
type Size struct {
	W float64
	H float64
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}
