package components

// PositionComponent 存储实体在容器中的坐标
// 对点赞粒子而言是图标框的左上角（与原生 View 的 x/y 语义一致）
type PositionComponent struct {
	X float64
	Y float64
}
