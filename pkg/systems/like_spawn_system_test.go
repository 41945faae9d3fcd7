package systems

import (
	"testing"

	"github.com/decker502/likefx/pkg/config"
)

func newTestSpawnSystem(t *testing.T, cfg config.SpawnConfig) (*LikeSpawnSystem, *LikeAnimationSystem) {
	t.Helper()
	anim, _, _ := newTestLikeSystem(t, 21)
	return NewLikeSpawnSystem(anim, cfg), anim
}

func spawnRequest(sys *LikeAnimationSystem) LikeSpawnRequest {
	return LikeSpawnRequest{Container: testContainer, Icon: sys.Template().Icon, Source: "test"}
}

func TestSpawnSystemBurstThenRate(t *testing.T) {
	spawner, anim := newTestSpawnSystem(t, config.SpawnConfig{
		RatePerSecond: 10,
		Burst:         3,
		QueueCapacity: 20,
	})

	for i := 0; i < 10; i++ {
		if !spawner.Request(spawnRequest(anim)) {
			t.Fatalf("request %d rejected", i)
		}
	}

	// 第一帧只放行 burst 个
	if got := len(spawner.Update(0)); got != 3 {
		t.Fatalf("first frame released %d, 期望 3", got)
	}
	if spawner.Pending() != 7 {
		t.Errorf("Pending = %d, 期望 7", spawner.Pending())
	}

	// 0.1 秒补充 1 个令牌
	if got := len(spawner.Update(0.1)); got != 1 {
		t.Errorf("after 0.1s released %d, 期望 1", got)
	}

	// 足够长的时间后全部放行（每帧最多 burst 个）
	total := 4
	for i := 0; i < 10 && spawner.Pending() > 0; i++ {
		total += len(spawner.Update(1.0))
	}
	if total != 10 || spawner.Pending() != 0 {
		t.Errorf("released %d pending %d, 期望 10/0", total, spawner.Pending())
	}
	if anim.LiveCount() != 10 {
		t.Errorf("LiveCount = %d, 期望 10", anim.LiveCount())
	}
}

func TestSpawnSystemQueueCapacity(t *testing.T) {
	spawner, anim := newTestSpawnSystem(t, config.SpawnConfig{
		RatePerSecond: 1,
		Burst:         1,
		QueueCapacity: 2,
	})

	results := []bool{
		spawner.Request(spawnRequest(anim)),
		spawner.Request(spawnRequest(anim)),
		spawner.Request(spawnRequest(anim)),
	}
	if !results[0] || !results[1] || results[2] {
		t.Errorf("Request results = %v, 期望 [true true false]", results)
	}

	released, dropped := spawner.Stats()
	if released != 0 || dropped != 1 {
		t.Errorf("Stats = %d/%d, 期望 0/1", released, dropped)
	}

	spawner.Update(0)
	if spawner.Pending() != 1 {
		t.Errorf("Pending = %d, 期望 1", spawner.Pending())
	}
	// 出队后腾出空间
	if !spawner.Request(spawnRequest(anim)) {
		t.Error("request should be accepted after dequeue")
	}
}

func TestSpawnSystemMaxLive(t *testing.T) {
	spawner, anim := newTestSpawnSystem(t, config.SpawnConfig{
		RatePerSecond: 1000,
		Burst:         100,
		MaxLive:       5,
		QueueCapacity: 50,
	})

	for i := 0; i < 8; i++ {
		spawner.Request(spawnRequest(anim))
	}
	if got := len(spawner.Update(0)); got != 5 {
		t.Fatalf("released %d, 期望受上限约束为 5", got)
	}
	if anim.LiveCount() != 5 {
		t.Errorf("LiveCount = %d, 期望 5", anim.LiveCount())
	}

	// 粒子结束后剩余请求被放行
	anim.Update(4.0)
	if got := len(spawner.Update(1.0 / 60)); got != 3 {
		t.Errorf("released after completion %d, 期望 3", got)
	}
}

func TestSpawnSystemEmptyQueue(t *testing.T) {
	spawner, _ := newTestSpawnSystem(t, config.DefaultLikeEffectConfig().Spawn)
	if h := spawner.Update(1.0 / 60); h != nil {
		t.Errorf("empty queue returned %v", h)
	}
}
