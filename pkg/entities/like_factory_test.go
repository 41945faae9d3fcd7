package entities

import (
	"math/rand/v2"
	"testing"

	"github.com/decker502/likefx/pkg/components"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/curve"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/utils"
)

func newTestTemplate(t *testing.T) *LikeTemplate {
	t.Helper()
	tmpl, err := NewLikeTemplate(config.DefaultLikeEffectConfig())
	if err != nil {
		t.Fatalf("NewLikeTemplate error: %v", err)
	}
	return tmpl
}

func TestNewLikeTemplate(t *testing.T) {
	tmpl := newTestTemplate(t)

	if tmpl.EntryDuration != 0.5 || tmpl.TravelDuration != 3.0 {
		t.Errorf("durations = %v/%v, 期望 0.5/3.0", tmpl.EntryDuration, tmpl.TravelDuration)
	}
	display := tmpl.DisplaySize(tmpl.Icon)
	if display.W != tmpl.Icon.W/5 || display.H != tmpl.Icon.H/5 {
		t.Errorf("display size %+v should be icon %+v / 5", display, tmpl.Icon)
	}
	if len(tmpl.Easings) != 4 || tmpl.Variants != 3 {
		t.Errorf("easings=%d variants=%d, 期望 4/3", len(tmpl.Easings), tmpl.Variants)
	}
}

func TestNewLikeTemplateInvalidConfig(t *testing.T) {
	cfg := config.DefaultLikeEffectConfig()
	cfg.Travel.DurationMs = 0
	if _, err := NewLikeTemplate(cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestCreateLikeParticle(t *testing.T) {
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewPCG(7, 11))
	tmpl := newTestTemplate(t)
	container := curve.Size{W: 480, H: 800}

	id := CreateLikeParticle(em, curve.NewGenerator(rng), rng, tmpl, container, tmpl.Icon)

	particle, ok := ecs.GetComponent[*components.LikeParticleComponent](em, id)
	if !ok {
		t.Fatal("LikeParticleComponent missing")
	}
	if particle.Phase != components.LikePhaseCreated {
		t.Errorf("Phase = %v, 期望 Created", particle.Phase)
	}
	if particle.Evaluator == nil {
		t.Fatal("Evaluator should be bound")
	}
	if particle.Path.P0 != curve.StartPoint(container, tmpl.Icon) {
		t.Errorf("P0 = %+v, 期望 %+v", particle.Path.P0, curve.StartPoint(container, tmpl.Icon))
	}
	if particle.Path.P3.Y != 0 {
		t.Errorf("P3.Y = %v, 期望 0", particle.Path.P3.Y)
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok || pos.X != particle.Path.P0.X || pos.Y != particle.Path.P0.Y {
		t.Errorf("position should start at P0, got %+v", pos)
	}

	visual, ok := ecs.GetComponent[*components.LikeVisualComponent](em, id)
	if !ok || visual.Alpha != 0.3 || visual.Scale != 0.2 {
		t.Errorf("visual should start at entry values, got %+v", visual)
	}

	sprite, ok := ecs.GetComponent[*components.LikeSpriteComponent](em, id)
	if !ok {
		t.Fatal("LikeSpriteComponent missing")
	}
	if sprite.Variant < components.HeartRed || sprite.Variant > components.HeartBlue {
		t.Errorf("Variant = %v out of range", sprite.Variant)
	}
	if want := tmpl.DisplaySize(tmpl.Icon); sprite.Width != want.W || sprite.Height != want.H {
		t.Errorf("sprite size %vx%v, 期望 %vx%v", sprite.Width, sprite.Height, want.W, want.H)
	}
}

// TestCreateLikeParticleRandomChoices 大量生成后每种缓动和颜色都应出现
func TestCreateLikeParticleRandomChoices(t *testing.T) {
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewPCG(3, 5))
	gen := curve.NewGenerator(rng)
	tmpl := newTestTemplate(t)

	easings := make(map[utils.EasingKind]int)
	variants := make(map[components.HeartVariant]int)
	for i := 0; i < 400; i++ {
		id := CreateLikeParticle(em, gen, rng, tmpl, curve.Size{W: 480, H: 800}, tmpl.Icon)
		p, _ := ecs.GetComponent[*components.LikeParticleComponent](em, id)
		s, _ := ecs.GetComponent[*components.LikeSpriteComponent](em, id)
		easings[p.Easing]++
		variants[s.Variant]++
	}

	if len(easings) != 4 {
		t.Errorf("Expected all 4 easings to be chosen, got %v", easings)
	}
	if len(variants) != 3 {
		t.Errorf("Expected all 3 variants to be chosen, got %v", variants)
	}
}

func TestCreateLikeParticleDegenerateContainer(t *testing.T) {
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewPCG(1, 1))
	tmpl := newTestTemplate(t)

	id := CreateLikeParticle(em, curve.NewGenerator(rng), rng, tmpl, curve.Size{}, tmpl.Icon)
	p, ok := ecs.GetComponent[*components.LikeParticleComponent](em, id)
	if !ok {
		t.Fatal("particle should still be created for a zero-size container")
	}
	if !p.Path.Degenerate() {
		t.Errorf("expected degenerate path, got %+v", p.Path)
	}
}
