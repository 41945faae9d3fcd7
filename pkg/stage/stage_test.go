package stage

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/decker502/likefx/internal/feed"
	"github.com/decker502/likefx/pkg/components"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/systems"
)

const frame = 1.0 / 60.0

func newTestStage(t *testing.T) *Stage {
	t.Helper()
	s, err := New(config.DefaultLikeEffectConfig(), rand.New(rand.NewPCG(7, 11)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	s.Resize(480, 800)
	return s
}

func TestStage_TapSpawnsAndCompletes(t *testing.T) {
	s := newTestStage(t)

	spawned := 0
	s.OnSpawn(func(h systems.LikeHandle) {
		spawned++
		if h.Phase() != components.LikePhaseEntering {
			t.Errorf("new like phase = %v, want Entering", h.Phase())
		}
	})

	if !s.RequestLike(SourceTap) {
		t.Fatal("RequestLike() = false")
	}
	s.Update(frame)
	if spawned != 1 {
		t.Fatalf("OnSpawn called %d times, want 1", spawned)
	}
	if st := s.Stats(); st.Live != 1 || st.Pending != 0 {
		t.Errorf("Stats() = %+v, want 1 live and 0 pending", st)
	}

	// 入场 0.5s + 飞行 3s
	for i := 0; i < 60*4; i++ {
		s.Update(frame)
	}

	st := s.Stats()
	if st.Completed != 1 || st.Live != 0 {
		t.Errorf("Stats() = %+v, want 1 completed and 0 live", st)
	}
	if n := s.EntityManager().EntityCount(); n != 0 {
		t.Errorf("EntityCount() = %d, want 0 after completion", n)
	}
}

func TestStage_ResizeAffectsOnlyNewLikes(t *testing.T) {
	s := newTestStage(t)
	s.RequestLike(SourceKey)
	s.Update(0)

	s.Resize(1000, 2000)
	s.RequestLike(SourceKey)
	s.Update(0)

	em := s.EntityManager()
	ids := ecs.GetEntitiesWith1[*components.LikeParticleComponent](em)
	if len(ids) != 2 {
		t.Fatalf("got %d likes, want 2", len(ids))
	}

	// 图标 200x180，起点 y = H - 180/5
	wantY := []float64{800 - 36, 2000 - 36}
	for i, id := range ids {
		p, _ := ecs.GetComponent[*components.LikeParticleComponent](em, id)
		if p.Path.P0.Y != wantY[i] {
			t.Errorf("like %d P0.Y = %v, want %v", i, p.Path.P0.Y, wantY[i])
		}
		if p.Path.P3.Y != 0 {
			t.Errorf("like %d P3.Y = %v, want 0", i, p.Path.P3.Y)
		}
	}
}

func TestStage_DrainsFeed(t *testing.T) {
	s := newTestStage(t)

	ch := make(chan feed.LikeEvent, 4)
	s.AttachFeed(ch)
	ch <- feed.NewLikeEvent("alice", 3)
	ch <- feed.NewLikeEvent("bob", 2)

	s.Update(0)
	st := s.Stats()
	if st.Remote != 2 {
		t.Errorf("Remote = %d, want 2", st.Remote)
	}
	if st.Spawned != 5 {
		t.Errorf("Spawned = %d, want 5", st.Spawned)
	}

	close(ch)
	s.Update(0)
	if s.feed != nil {
		t.Error("closed feed should be detached")
	}
}

func TestStage_AutoPlay(t *testing.T) {
	s := newTestStage(t)
	s.SetAutoPlay(true, 100*time.Millisecond)
	if !s.AutoPlay() {
		t.Fatal("AutoPlay() = false after enabling")
	}

	s.Update(0.35)
	if got := s.Stats().Spawned; got != 3 {
		t.Errorf("Spawned = %d after 0.35s at 100ms interval, want 3", got)
	}

	s.Update(0.05)
	if got := s.Stats().Spawned; got != 4 {
		t.Errorf("Spawned = %d after 0.4s, want 4", got)
	}

	s.SetAutoPlay(false, 100*time.Millisecond)
	s.Update(1)
	if got := s.Stats().Spawned; got != 4 {
		t.Errorf("Spawned = %d after disabling, want 4", got)
	}
}

func TestStage_CancelAll(t *testing.T) {
	s := newTestStage(t)
	for i := 0; i < 5; i++ {
		s.RequestLike(SourceTap)
	}
	s.Update(frame)

	if n := s.CancelAll(); n != 5 {
		t.Errorf("CancelAll() = %d, want 5", n)
	}
	st := s.Stats()
	if st.Live != 0 || st.Cancelled != 5 {
		t.Errorf("Stats() = %+v, want 0 live and 5 cancelled", st)
	}
	if n := s.EntityManager().EntityCount(); n != 0 {
		t.Errorf("EntityCount() = %d, want 0", n)
	}
}

func TestStage_NegativeDtIgnored(t *testing.T) {
	s := newTestStage(t)
	s.SetAutoPlay(true, 100*time.Millisecond)
	s.Update(-5)
	if got := s.Stats().Spawned; got != 0 {
		t.Errorf("Spawned = %d after negative dt, want 0", got)
	}
}
