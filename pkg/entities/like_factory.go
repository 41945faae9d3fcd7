package entities

import (
	"fmt"

	"github.com/decker502/likefx/pkg/components"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/curve"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/utils"
)

// LikeTemplate 是从配置预解析出的粒子模板，避免每次生成都解析字符串
type LikeTemplate struct {
	// Icon 默认原始图标尺寸（用于曲线生成）
	Icon curve.Size
	// ScaleDivisor 显示尺寸 = 原始尺寸 / ScaleDivisor
	ScaleDivisor float64

	EntryDuration  float64
	TravelDuration float64
	EntryAlphaFrom float64
	EntryScaleFrom float64

	Easings  []utils.EasingKind
	Variants int
}

// NewLikeTemplate 从配置构建粒子模板
func NewLikeTemplate(cfg *config.LikeEffectConfig) (*LikeTemplate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid like effect config: %w", err)
	}

	easings, err := cfg.EasingKinds()
	if err != nil {
		return nil, err
	}

	return &LikeTemplate{
		Icon:           curve.Size{W: cfg.Icon.Width, H: cfg.Icon.Height},
		ScaleDivisor:   cfg.Icon.ScaleDivisor,
		EntryDuration:  cfg.EntryDuration(),
		TravelDuration: cfg.TravelDuration(),
		EntryAlphaFrom: cfg.Entry.AlphaFrom,
		EntryScaleFrom: cfg.Entry.ScaleFrom,
		Easings:        easings,
		Variants:       len(cfg.Palette),
	}, nil
}

// DisplaySize 返回原始尺寸为 icon 的图标的显示尺寸
func (t *LikeTemplate) DisplaySize(icon curve.Size) curve.Size {
	if t.ScaleDivisor <= 0 {
		return icon
	}
	return curve.Size{W: icon.W / t.ScaleDivisor, H: icon.H / t.ScaleDivisor}
}

// CreateLikeParticle 在容器底部创建一个点赞粒子实体
//
// 参数:
//   - em: EntityManager 实例
//   - gen: 曲线生成器（内部持有随机源）
//   - rnd: 随机源，用于选择缓动函数和心形颜色
//   - tmpl: 粒子模板
//   - container: 生成时刻的容器尺寸；之后容器尺寸变化不影响该粒子
//   - icon: 原始图标尺寸
//
// 返回:
//   - ecs.EntityID: 新粒子的实体 ID，状态为 Created
//
// 随机数消耗顺序固定：曲线（5 次）→ 缓动 → 颜色
func CreateLikeParticle(em *ecs.EntityManager, gen *curve.Generator, rnd curve.RandSource, tmpl *LikeTemplate, container, icon curve.Size) ecs.EntityID {
	path := gen.Generate(container, icon)
	display := tmpl.DisplaySize(icon)

	easing := utils.EasingLinear
	if len(tmpl.Easings) > 0 {
		easing = tmpl.Easings[rnd.IntN(len(tmpl.Easings))]
	}

	variant := components.HeartRed
	if tmpl.Variants > 0 {
		variant = components.HeartVariant(rnd.IntN(tmpl.Variants))
	}

	id := em.CreateEntity()

	em.AddComponent(id, &components.LikeParticleComponent{
		Path:           path,
		Evaluator:      path.Evaluator(),
		Easing:         easing,
		EntryDuration:  tmpl.EntryDuration,
		TravelDuration: tmpl.TravelDuration,
		Phase:          components.LikePhaseCreated,
	})

	em.AddComponent(id, &components.PositionComponent{
		X: path.P0.X,
		Y: path.P0.Y,
	})

	em.AddComponent(id, &components.LikeVisualComponent{
		Alpha: tmpl.EntryAlphaFrom,
		Scale: tmpl.EntryScaleFrom,
	})

	em.AddComponent(id, &components.LikeSpriteComponent{
		Variant: variant,
		Width:   display.W,
		Height:  display.H,
	})

	return id
}
