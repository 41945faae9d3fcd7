// Package stage 点赞舞台：把点赞来源（点击、键盘、自动播放、远程推送）接到动画系统上
//
// 舞台本身不关心渲染方式，桌面/移动端（Ebitengine）和终端宿主共用同一套逻辑。
// 所有方法都必须在宿主的帧线程上调用。
package stage

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/likefx/internal/feed"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/curve"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/entities"
	"github.com/decker502/likefx/pkg/systems"
)

// maxFeedEventsPerFrame 每帧最多处理的远程事件数，其余留到下一帧
const maxFeedEventsPerFrame = 32

// 点赞来源
const (
	SourceTap      = "tap"
	SourceKey      = "key"
	SourceAutoPlay = "autoplay"
	SourceFeed     = "feed"
)

// Stats 舞台运行统计
type Stats struct {
	Live      int
	Pending   int
	Spawned   uint64
	Completed uint64
	Cancelled uint64
	Dropped   uint64
	Remote    uint64
}

// Stage 持有实体管理器与点赞相关系统
type Stage struct {
	entityManager *ecs.EntityManager
	animation     *systems.LikeAnimationSystem
	spawner       *systems.LikeSpawnSystem

	container curve.Size

	feed        <-chan feed.LikeEvent
	remoteLikes uint64

	autoPlay         bool
	autoPlayEvery    time.Duration
	autoPlayInterval float64 // 秒
	autoPlayElapsed  float64

	onSpawn []func(systems.LikeHandle)
}

// New 根据效果配置创建舞台
func New(effect *config.LikeEffectConfig, rnd curve.RandSource) (*Stage, error) {
	tmpl, err := entities.NewLikeTemplate(effect)
	if err != nil {
		return nil, fmt.Errorf("failed to build like template: %w", err)
	}

	em := ecs.NewEntityManager()
	animation := systems.NewLikeAnimationSystem(em, rnd, tmpl)
	return &Stage{
		entityManager: em,
		animation:     animation,
		spawner:       systems.NewLikeSpawnSystem(animation, effect.Spawn),
	}, nil
}

// EntityManager 返回舞台的实体管理器（渲染系统查询用）
func (s *Stage) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Animation 返回动画系统，可用于注册监听器
func (s *Stage) Animation() *systems.LikeAnimationSystem {
	return s.animation
}

// Resize 更新容器尺寸，只影响之后生成的点赞
func (s *Stage) Resize(w, h float64) {
	if s.container.W == w && s.container.H == h {
		return
	}
	s.container = curve.Size{W: w, H: h}
	log.Printf("[Stage] Container resized to %.0fx%.0f", w, h)
}

// Container 返回当前容器尺寸
func (s *Stage) Container() curve.Size {
	return s.container
}

// OnSpawn 注册点赞实际生成时的回调（如播放音效）
func (s *Stage) OnSpawn(fn func(systems.LikeHandle)) {
	s.onSpawn = append(s.onSpawn, fn)
}

// RequestLike 请求生成一个点赞，队列已满时返回 false
func (s *Stage) RequestLike(source string) bool {
	return s.spawner.Request(systems.LikeSpawnRequest{
		Container: s.container,
		Icon:      s.animation.Template().Icon,
		Source:    source,
	})
}

// AttachFeed 接入远程点赞事件通道，传 nil 断开
func (s *Stage) AttachFeed(ch <-chan feed.LikeEvent) {
	s.feed = ch
}

// SetAutoPlay 设置自动点赞
func (s *Stage) SetAutoPlay(enabled bool, interval time.Duration) {
	s.autoPlay = enabled
	s.autoPlayEvery = interval
	s.autoPlayInterval = interval.Seconds()
	s.autoPlayElapsed = 0
}

// AutoPlay 返回自动点赞是否开启
func (s *Stage) AutoPlay() bool {
	return s.autoPlay
}

// AutoPlayInterval 返回当前自动点赞间隔
func (s *Stage) AutoPlayInterval() time.Duration {
	return s.autoPlayEvery
}

// Update 推进一帧
//
// 顺序：远程事件 → 自动播放 → 已有粒子动画 → 放行新粒子 → 清理完成的实体。
// 新粒子在本帧生成，从下一帧开始计时。
func (s *Stage) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	s.drainFeed()
	s.tickAutoPlay(dt)

	s.animation.Update(dt)
	for _, h := range s.spawner.Update(dt) {
		for _, fn := range s.onSpawn {
			fn(h)
		}
	}

	s.entityManager.RemoveMarkedEntities()
}

func (s *Stage) drainFeed() {
	if s.feed == nil {
		return
	}
	for i := 0; i < maxFeedEventsPerFrame; i++ {
		select {
		case ev, ok := <-s.feed:
			if !ok {
				log.Printf("[Stage] Like feed closed")
				s.feed = nil
				return
			}
			s.remoteLikes++
			for n := 0; n < ev.Count; n++ {
				if !s.RequestLike(SourceFeed) {
					break
				}
			}
		default:
			return
		}
	}
}

func (s *Stage) tickAutoPlay(dt float64) {
	if !s.autoPlay || s.autoPlayInterval <= 0 {
		return
	}
	s.autoPlayElapsed += dt
	for s.autoPlayElapsed >= s.autoPlayInterval {
		s.autoPlayElapsed -= s.autoPlayInterval
		s.RequestLike(SourceAutoPlay)
	}
}

// CancelAll 取消所有存活的点赞
func (s *Stage) CancelAll() int {
	n := s.animation.CancelAll()
	s.entityManager.RemoveMarkedEntities()
	return n
}

// Stats 返回当前统计
func (s *Stage) Stats() Stats {
	spawned, completed, cancelled := s.animation.Stats()
	_, dropped := s.spawner.Stats()
	return Stats{
		Live:      s.animation.LiveCount(),
		Pending:   s.spawner.Pending(),
		Spawned:   spawned,
		Completed: completed,
		Cancelled: cancelled,
		Dropped:   dropped,
		Remote:    s.remoteLikes,
	}
}
