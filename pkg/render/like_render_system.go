// Package render 用 Ebitengine 绘制点赞粒子
//
// 动画逻辑（pkg/systems）不依赖任何图形库，这里只读取组件状态并提交三角形。
package render

import (
	"image"
	"image/color"

	"github.com/decker502/likefx/pkg/components"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 一批顶点数上限（uint16 索引），超过时分批提交
const (
	maxBatchVertices   = 1<<16 - 1
	heartVertexReserve = 1024
)

// LikeRenderSystem 把所有存活的点赞粒子绘制为矢量心形
//
// 渲染流程：
// 1. 查询拥有 LikeSprite、Position、LikeVisual 的实体
// 2. 以图标框中心为原点按 Visual.Scale 缩放
// 3. 顶点颜色 = 调色板颜色 × Visual.Alpha
// 4. 所有心形合并为一次 DrawTriangles 调用
type LikeRenderSystem struct {
	entityManager *ecs.EntityManager
	palette       []color.RGBA

	// 预分配的顶点数组，避免每帧内存分配
	vertices []ebiten.Vertex
	indices  []uint16

	whiteSubImage *ebiten.Image
}

// NewLikeRenderSystem 创建渲染系统，palette 按 HeartVariant 索引
func NewLikeRenderSystem(em *ecs.EntityManager, palette []color.RGBA) *LikeRenderSystem {
	return &LikeRenderSystem{
		entityManager: em,
		palette:       append([]color.RGBA(nil), palette...),
		vertices:      make([]ebiten.Vertex, 0, 1024),
		indices:       make([]uint16, 0, 2048),
	}
}

// Draw 把点赞粒子绘制到 screen 上，offsetX/offsetY 为舞台在屏幕上的左上角
func (s *LikeRenderSystem) Draw(screen *ebiten.Image, offsetX, offsetY float64) {
	entities := ecs.GetEntitiesWith3[
		*components.LikeSpriteComponent,
		*components.PositionComponent,
		*components.LikeVisualComponent,
	](s.entityManager)
	if len(entities) == 0 {
		return
	}

	if s.whiteSubImage == nil {
		white := ebiten.NewImage(3, 3)
		white.Fill(color.White)
		s.whiteSubImage = white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for _, id := range entities {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		sprite, _ := ecs.GetComponent[*components.LikeSpriteComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		visual, _ := ecs.GetComponent[*components.LikeVisualComponent](s.entityManager, id)

		if visual.Alpha <= 0 || visual.Scale <= 0 {
			continue
		}

		left, top, w, h := systems.HeartBox(pos.X+offsetX, pos.Y+offsetY, sprite.Width, sprite.Height, visual.Scale)
		var path vector.Path
		AppendHeartPath(&path, float32(left), float32(top), float32(w), float32(h))

		// 单个心形顶点数远小于 heartVertexReserve，提前提交避免索引溢出
		if len(s.vertices)+heartVertexReserve > maxBatchVertices {
			s.flush(screen)
		}
		start := len(s.vertices)
		s.vertices, s.indices = path.AppendVerticesAndIndicesForFilling(s.vertices, s.indices)

		r, g, b, a := systems.HeartColor(s.palette, sprite.Variant, visual.Alpha)
		for i := start; i < len(s.vertices); i++ {
			s.vertices[i].SrcX = 1
			s.vertices[i].SrcY = 1
			s.vertices[i].ColorR = r
			s.vertices[i].ColorG = g
			s.vertices[i].ColorB = b
			s.vertices[i].ColorA = a
		}
	}

	s.flush(screen)
}

func (s *LikeRenderSystem) flush(screen *ebiten.Image) {
	if len(s.indices) == 0 {
		s.vertices = s.vertices[:0]
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	screen.DrawTriangles(s.vertices, s.indices, s.whiteSubImage, op)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// AppendHeartPath 在 (left, top, w, h) 框内追加一个闭合心形
// 心形底尖位于框底边中点，两个圆瓣贴近顶边
func AppendHeartPath(path *vector.Path, left, top, w, h float32) {
	px := func(u float32) float32 { return left + u*w }
	py := func(v float32) float32 { return top + v*h }

	path.MoveTo(px(0.5), py(1.0))
	// 左半边
	path.CubicTo(px(0.2), py(0.78), px(0.0), py(0.55), px(0.0), py(0.3))
	path.CubicTo(px(0.0), py(0.1), px(0.15), py(0.0), px(0.28), py(0.0))
	path.CubicTo(px(0.4), py(0.0), px(0.47), py(0.08), px(0.5), py(0.18))
	// 右半边
	path.CubicTo(px(0.53), py(0.08), px(0.6), py(0.0), px(0.72), py(0.0))
	path.CubicTo(px(0.85), py(0.0), px(1.0), py(0.1), px(1.0), py(0.3))
	path.CubicTo(px(1.0), py(0.55), px(0.8), py(0.78), px(0.5), py(1.0))
	path.Close()
}
