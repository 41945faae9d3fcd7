package systems

import (
	"log"

	"github.com/decker502/likefx/pkg/components"
	"github.com/decker502/likefx/pkg/curve"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/entities"
	"github.com/decker502/likefx/pkg/utils"
)

// LikeListener receives per-frame output of travelling like particles.
// Hosts use it to move their visual elements and to detach them on completion.
type LikeListener interface {
	// OnLikeTick is called once per Update for every travelling particle.
	OnLikeTick(id ecs.EntityID, position curve.Point, opacity float64)
	// OnLikeComplete is called exactly once per particle, on natural completion
	// or forced cancellation.
	OnLikeComplete(id ecs.EntityID)
}

// LikeListenerFuncs adapts plain functions to LikeListener. Nil fields are skipped.
type LikeListenerFuncs struct {
	Tick     func(id ecs.EntityID, position curve.Point, opacity float64)
	Complete func(id ecs.EntityID)
}

func (f LikeListenerFuncs) OnLikeTick(id ecs.EntityID, position curve.Point, opacity float64) {
	if f.Tick != nil {
		f.Tick(id, position, opacity)
	}
}

func (f LikeListenerFuncs) OnLikeComplete(id ecs.EntityID) {
	if f.Complete != nil {
		f.Complete(id)
	}
}

// LikeFrame is the visual state of a particle at one instant.
type LikeFrame struct {
	Position curve.Point
	Opacity  float64
	Scale    float64
	Done     bool
}

// Advance computes the travelling-phase frame after elapsed seconds.
//
// 流程：
//  1. elapsedFraction = clamp(elapsed / TravelDuration, 0, 1)
//  2. t = easing(elapsedFraction)，传给贝塞尔估值器的是缓动后的进度
//  3. position = B(t)，opacity = 1 - elapsedFraction
//
// Done is true once elapsedFraction reaches 1; the final frame sits exactly on
// P3 with opacity 0.
func Advance(p *components.LikeParticleComponent, elapsed float64) LikeFrame {
	fraction := 1.0
	if p.TravelDuration > 0 {
		fraction = utils.Clamp01(elapsed / p.TravelDuration)
	}

	t := utils.Clamp01(p.Easing.Evaluate(fraction))
	evaluator := p.Evaluator
	if evaluator == nil {
		evaluator = p.Path.Evaluator()
	}

	return LikeFrame{
		Position: evaluator.Evaluate(t, p.Path.P0, p.Path.P3),
		Opacity:  TravelOpacity(fraction),
		Scale:    1.0,
		Done:     fraction >= 1,
	}
}

// TravelOpacity 飘动阶段的透明度：1 - elapsedFraction，在 [0,1] 上单调不增
func TravelOpacity(fraction float64) float64 {
	return 1 - utils.Clamp01(fraction)
}

// EntryFrame computes the entering-phase frame: the icon stays on P0 while
// alpha and scale grow from their start values to 1.
func EntryFrame(p *components.LikeParticleComponent, elapsed, alphaFrom, scaleFrom float64) LikeFrame {
	fraction := 1.0
	if p.EntryDuration > 0 {
		fraction = utils.Clamp01(elapsed / p.EntryDuration)
	}
	eased := utils.EaseAccelerateDecelerate(fraction)

	return LikeFrame{
		Position: p.Path.P0,
		Opacity:  utils.Lerp(alphaFrom, 1, eased),
		Scale:    utils.Lerp(scaleFrom, 1, eased),
		Done:     fraction >= 1,
	}
}

// LikeAnimationSystem drives every like particle through
// Created → Entering → Travelling → Completed.
//
// All methods must be called from the host's frame thread.
type LikeAnimationSystem struct {
	entityManager *ecs.EntityManager
	generator     *curve.Generator
	rnd           curve.RandSource
	template      *entities.LikeTemplate
	listeners     []LikeListener

	spawned   uint64
	completed uint64
	cancelled uint64
}

// NewLikeAnimationSystem creates the animation system.
// rnd feeds both the curve generator and the per-particle easing/colour choice.
func NewLikeAnimationSystem(em *ecs.EntityManager, rnd curve.RandSource, tmpl *entities.LikeTemplate) *LikeAnimationSystem {
	return &LikeAnimationSystem{
		entityManager: em,
		generator:     curve.NewGenerator(rnd),
		rnd:           rnd,
		template:      tmpl,
	}
}

// AddListener registers a listener for tick and completion callbacks.
func (s *LikeAnimationSystem) AddListener(l LikeListener) {
	s.listeners = append(s.listeners, l)
}

// Template returns the particle template in use.
func (s *LikeAnimationSystem) Template() *entities.LikeTemplate {
	return s.template
}

// Spawn creates a particle for the given container and intrinsic icon size and
// starts its lifecycle. The container size is only read here.
func (s *LikeAnimationSystem) Spawn(container, icon curve.Size) LikeHandle {
	if !container.Valid() || !icon.Valid() {
		log.Printf("[LikeAnimationSystem] Warning: degenerate geometry container=%.0fx%.0f icon=%.0fx%.0f, spawning zero-length path",
			container.W, container.H, icon.W, icon.H)
	}

	id := entities.CreateLikeParticle(s.entityManager, s.generator, s.rnd, s.template, container, icon)
	if p, ok := ecs.GetComponent[*components.LikeParticleComponent](s.entityManager, id); ok {
		transition(p, components.LikePhaseEntering)
	}
	s.spawned++

	return LikeHandle{ID: id, system: s}
}

// SpawnDefault spawns a particle using the template's icon size.
func (s *LikeAnimationSystem) SpawnDefault(container curve.Size) LikeHandle {
	return s.Spawn(container, s.template.Icon)
}

// Update advances every live particle by dt seconds. dt may vary between frames.
func (s *LikeAnimationSystem) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	ids := ecs.GetEntitiesWith1[*components.LikeParticleComponent](s.entityManager)
	for _, id := range ids {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		p, ok := ecs.GetComponent[*components.LikeParticleComponent](s.entityManager, id)
		if !ok {
			continue
		}
		s.step(id, p, dt)
	}
}

// step 推进单个粒子；一帧内的剩余时间可以跨越多个阶段
func (s *LikeAnimationSystem) step(id ecs.EntityID, p *components.LikeParticleComponent, dt float64) {
	remaining := dt
	for {
		switch p.Phase {
		case components.LikePhaseCreated:
			transition(p, components.LikePhaseEntering)

		case components.LikePhaseEntering:
			if p.EntryDuration <= 0 {
				transition(p, components.LikePhaseTravelling)
				continue
			}

			p.PhaseElapsed += remaining
			frame := EntryFrame(p, p.PhaseElapsed, s.template.EntryAlphaFrom, s.template.EntryScaleFrom)
			s.apply(id, frame)
			if !frame.Done {
				return
			}

			remaining = p.PhaseElapsed - p.EntryDuration
			transition(p, components.LikePhaseTravelling)

		case components.LikePhaseTravelling:
			p.PhaseElapsed += remaining
			frame := Advance(p, p.PhaseElapsed)
			s.apply(id, frame)
			for _, l := range s.listeners {
				l.OnLikeTick(id, frame.Position, frame.Opacity)
			}
			if frame.Done {
				s.complete(id, p, false)
			}
			return

		default:
			return
		}
	}
}

// apply 把帧写回位置和视觉组件
func (s *LikeAnimationSystem) apply(id ecs.EntityID, frame LikeFrame) {
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
		pos.X = frame.Position.X
		pos.Y = frame.Position.Y
	}
	if visual, ok := ecs.GetComponent[*components.LikeVisualComponent](s.entityManager, id); ok {
		visual.Alpha = frame.Opacity
		visual.Scale = frame.Scale
	}
}

// complete moves the particle to Completed, marks the entity for removal and
// notifies listeners. Returns false if the particle had already completed.
func (s *LikeAnimationSystem) complete(id ecs.EntityID, p *components.LikeParticleComponent, cancelled bool) bool {
	if !transition(p, components.LikePhaseCompleted) {
		return false
	}
	p.Cancelled = cancelled

	s.entityManager.DestroyEntity(id)
	if cancelled {
		s.cancelled++
	} else {
		s.completed++
	}

	for _, l := range s.listeners {
		l.OnLikeComplete(id)
	}
	return true
}

// Cancel forcibly removes a particle. It is idempotent with natural completion:
// OnLikeComplete fires only if the particle had not completed yet.
func (s *LikeAnimationSystem) Cancel(id ecs.EntityID) bool {
	p, ok := ecs.GetComponent[*components.LikeParticleComponent](s.entityManager, id)
	if !ok {
		return false
	}
	return s.complete(id, p, true)
}

// CancelAll cancels every live particle (container teardown).
func (s *LikeAnimationSystem) CancelAll() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LikeParticleComponent](s.entityManager) {
		if s.Cancel(id) {
			n++
		}
	}
	if n > 0 {
		log.Printf("[LikeAnimationSystem] Cancelled %d live particles", n)
	}
	return n
}

// LiveCount returns the number of particles that have not completed.
func (s *LikeAnimationSystem) LiveCount() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LikeParticleComponent](s.entityManager) {
		p, ok := ecs.GetComponent[*components.LikeParticleComponent](s.entityManager, id)
		if ok && p.Phase != components.LikePhaseCompleted {
			n++
		}
	}
	return n
}

// Stats returns how many particles were spawned, completed naturally and cancelled.
func (s *LikeAnimationSystem) Stats() (spawned, completed, cancelled uint64) {
	return s.spawned, s.completed, s.cancelled
}

// Phase returns the current phase of a particle. Removed particles report Completed.
func (s *LikeAnimationSystem) Phase(id ecs.EntityID) components.LikePhase {
	p, ok := ecs.GetComponent[*components.LikeParticleComponent](s.entityManager, id)
	if !ok {
		return components.LikePhaseCompleted
	}
	return p.Phase
}

// transition 执行状态迁移并重置阶段计时，非法迁移返回 false
func transition(p *components.LikeParticleComponent, next components.LikePhase) bool {
	if !p.Phase.CanTransitionTo(next) {
		return false
	}
	p.Phase = next
	p.PhaseElapsed = 0
	return true
}

// LikeHandle lets the host cancel a particle it spawned.
type LikeHandle struct {
	ID     ecs.EntityID
	system *LikeAnimationSystem
}

// Cancel forcibly removes the particle. Safe to call any number of times.
func (h LikeHandle) Cancel() bool {
	if h.system == nil {
		return false
	}
	return h.system.Cancel(h.ID)
}

// Phase returns the particle's current phase.
func (h LikeHandle) Phase() components.LikePhase {
	if h.system == nil {
		return components.LikePhaseCompleted
	}
	return h.system.Phase(h.ID)
}

// Alive reports whether the particle has not completed yet.
func (h LikeHandle) Alive() bool {
	return h.Phase() != components.LikePhaseCompleted
}
