package systems

import (
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/curve"
)

// LikeSpawnRequest 一次生成请求（点击、键盘或远程点赞）
type LikeSpawnRequest struct {
	Container curve.Size
	Icon      curve.Size
	Source    string // 请求来源，仅用于日志
}

// LikeSpawnSystem 对生成请求做节流
//
// 连续点击或远程点赞洪峰时，请求先进入有限队列，再按令牌桶速率放行，
// 同时受存活粒子上限约束。队列满时丢弃新请求（视觉效果尽力而为）。
//
// 令牌桶使用帧累积的模拟时钟，而不是墙钟，保证测试可复现、暂停时不积攒令牌。
type LikeSpawnSystem struct {
	animation *LikeAnimationSystem
	limiter   *rate.Limiter
	queue     []LikeSpawnRequest
	capacity  int
	maxLive   int
	clock     time.Time

	released uint64
	dropped  uint64
}

// spawnClockEpoch 模拟时钟起点
var spawnClockEpoch = time.Date(2020, 6, 24, 0, 0, 0, 0, time.UTC)

// NewLikeSpawnSystem 创建生成节流系统
func NewLikeSpawnSystem(animation *LikeAnimationSystem, cfg config.SpawnConfig) *LikeSpawnSystem {
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = 1
	}
	return &LikeSpawnSystem{
		animation: animation,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		queue:     make([]LikeSpawnRequest, 0, capacity),
		capacity:  capacity,
		maxLive:   cfg.MaxLive,
		clock:     spawnClockEpoch,
	}
}

// Request 把生成请求加入队列，队列已满时返回 false
func (s *LikeSpawnSystem) Request(req LikeSpawnRequest) bool {
	if len(s.queue) >= s.capacity {
		s.dropped++
		log.Printf("[LikeSpawnSystem] Queue full (%d), dropping request from %s", s.capacity, req.Source)
		return false
	}
	s.queue = append(s.queue, req)
	return true
}

// Update 推进模拟时钟并放行可生成的请求，返回本帧生成的粒子句柄
func (s *LikeSpawnSystem) Update(dt float64) []LikeHandle {
	if dt > 0 {
		s.clock = s.clock.Add(time.Duration(dt * float64(time.Second)))
	}
	if len(s.queue) == 0 {
		return nil
	}

	live := s.animation.LiveCount()
	var handles []LikeHandle
	n := 0
	for n < len(s.queue) {
		if s.maxLive > 0 && live >= s.maxLive {
			break
		}
		if !s.limiter.AllowN(s.clock, 1) {
			break
		}

		req := s.queue[n]
		handles = append(handles, s.animation.Spawn(req.Container, req.Icon))
		n++
		live++
	}
	s.released += uint64(n)

	// 前移剩余请求，复用底层数组
	s.queue = s.queue[:copy(s.queue, s.queue[n:])]
	return handles
}

// Pending 返回排队中的请求数
func (s *LikeSpawnSystem) Pending() int {
	return len(s.queue)
}

// Stats 返回已放行和已丢弃的请求数
func (s *LikeSpawnSystem) Stats() (released, dropped uint64) {
	return s.released, s.dropped
}
