package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/likefx/pkg/utils"
)

// LikeEffectConfig 点赞飘心效果配置
//
// 配置文件位置: data/likefx.yaml
type LikeEffectConfig struct {
	// Entry 入场阶段（淡入 + 放大）
	Entry EntryConfig `yaml:"entry"`

	// Travel 曲线飘动阶段
	Travel TravelConfig `yaml:"travel"`

	// Icon 图标尺寸
	Icon IconConfig `yaml:"icon"`

	// Palette 心形颜色（十六进制 "#RRGGBB"），按 红/粉/蓝 顺序
	Palette []string `yaml:"palette"`

	// Spawn 生成节流
	Spawn SpawnConfig `yaml:"spawn"`
}

// EntryConfig 入场阶段配置
type EntryConfig struct {
	// DurationMs 入场时长（毫秒），0 表示跳过入场
	DurationMs int `yaml:"durationMs"`
	// AlphaFrom 入场起始透明度
	AlphaFrom float64 `yaml:"alphaFrom"`
	// ScaleFrom 入场起始缩放
	ScaleFrom float64 `yaml:"scaleFrom"`
}

// TravelConfig 曲线阶段配置
type TravelConfig struct {
	// DurationMs 飘动时长（毫秒）
	DurationMs int `yaml:"durationMs"`
	// Easings 可随机选择的缓动函数名称
	Easings []string `yaml:"easings"`
}

// IconConfig 图标尺寸配置
type IconConfig struct {
	// Width/Height 原始图片尺寸（像素）
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// ScaleDivisor 显示尺寸 = 原始尺寸 / ScaleDivisor
	ScaleDivisor float64 `yaml:"scaleDivisor"`
}

// SpawnConfig 生成节流配置
type SpawnConfig struct {
	// RatePerSecond 每秒最多放行的生成请求数
	RatePerSecond float64 `yaml:"ratePerSecond"`
	// Burst 令牌桶容量
	Burst int `yaml:"burst"`
	// MaxLive 同时存活的粒子上限，0 表示不限
	MaxLive int `yaml:"maxLive"`
	// QueueCapacity 等待队列容量，超出的请求被丢弃
	QueueCapacity int `yaml:"queueCapacity"`
}

// DefaultLikeEffectConfig 返回与原版点赞效果一致的默认配置
func DefaultLikeEffectConfig() *LikeEffectConfig {
	return &LikeEffectConfig{
		Entry: EntryConfig{
			DurationMs: 500,
			AlphaFrom:  0.3,
			ScaleFrom:  0.2,
		},
		Travel: TravelConfig{
			DurationMs: 3000,
			Easings:    []string{"linear", "accelerateDecelerate", "accelerate", "decelerate"},
		},
		Icon: IconConfig{
			Width:        200,
			Height:       180,
			ScaleDivisor: 5,
		},
		Palette: []string{"#F2334D", "#FF8FB1", "#3D8BFF"},
		Spawn: SpawnConfig{
			RatePerSecond: 15,
			Burst:         8,
			MaxLive:       80,
			QueueCapacity: 64,
		},
	}
}

// LoadLikeEffectConfig 加载点赞效果配置
//
// 参数:
//   - path: 配置文件路径（如 "data/likefx.yaml"）
//
// 返回:
//   - *LikeEffectConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadLikeEffectConfig(path string) (*LikeEffectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read like effect config: %w", err)
	}
	return ParseLikeEffectConfig(data)
}

// ParseLikeEffectConfig 从 YAML 数据解析配置
// 未出现在 YAML 中的字段保留默认值
func ParseLikeEffectConfig(data []byte) (*LikeEffectConfig, error) {
	config := DefaultLikeEffectConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse like effect config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid like effect config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
func (c *LikeEffectConfig) Validate() error {
	if c.Entry.DurationMs < 0 {
		return fmt.Errorf("entry.durationMs must be >= 0, got %d", c.Entry.DurationMs)
	}
	if c.Entry.AlphaFrom < 0 || c.Entry.AlphaFrom > 1 {
		return fmt.Errorf("entry.alphaFrom must be in [0,1], got %.2f", c.Entry.AlphaFrom)
	}
	if c.Entry.ScaleFrom < 0 {
		return fmt.Errorf("entry.scaleFrom must be >= 0, got %.2f", c.Entry.ScaleFrom)
	}
	if c.Travel.DurationMs <= 0 {
		return fmt.Errorf("travel.durationMs must be > 0, got %d", c.Travel.DurationMs)
	}
	if len(c.Travel.Easings) == 0 {
		return fmt.Errorf("travel.easings must not be empty")
	}
	if _, err := c.EasingKinds(); err != nil {
		return err
	}
	if c.Icon.Width <= 0 || c.Icon.Height <= 0 {
		return fmt.Errorf("icon size must be positive, got %.1fx%.1f", c.Icon.Width, c.Icon.Height)
	}
	if c.Icon.ScaleDivisor <= 0 {
		return fmt.Errorf("icon.scaleDivisor must be > 0, got %.2f", c.Icon.ScaleDivisor)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must not be empty")
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if c.Spawn.RatePerSecond <= 0 {
		return fmt.Errorf("spawn.ratePerSecond must be > 0, got %.2f", c.Spawn.RatePerSecond)
	}
	if c.Spawn.Burst <= 0 {
		return fmt.Errorf("spawn.burst must be > 0, got %d", c.Spawn.Burst)
	}
	if c.Spawn.MaxLive < 0 {
		return fmt.Errorf("spawn.maxLive must be >= 0, got %d", c.Spawn.MaxLive)
	}
	if c.Spawn.QueueCapacity <= 0 {
		return fmt.Errorf("spawn.queueCapacity must be > 0, got %d", c.Spawn.QueueCapacity)
	}
	return nil
}

// EntryDuration 入场时长（秒）
func (c *LikeEffectConfig) EntryDuration() float64 {
	return float64(c.Entry.DurationMs) / 1000.0
}

// TravelDuration 飘动时长（秒）
func (c *LikeEffectConfig) TravelDuration() float64 {
	return float64(c.Travel.DurationMs) / 1000.0
}

// DisplayIconSize 返回图标的显示尺寸
func (c *LikeEffectConfig) DisplayIconSize() (float64, float64) {
	return c.Icon.Width / c.Icon.ScaleDivisor, c.Icon.Height / c.Icon.ScaleDivisor
}

// EasingKinds 解析 travel.easings
func (c *LikeEffectConfig) EasingKinds() ([]utils.EasingKind, error) {
	kinds := make([]utils.EasingKind, 0, len(c.Travel.Easings))
	for _, name := range c.Travel.Easings {
		kind, err := utils.ParseEasingKind(name)
		if err != nil {
			return nil, fmt.Errorf("travel.easings: %w", err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Colors 解析调色板
func (c *LikeEffectConfig) Colors() ([]color.RGBA, error) {
	colors := make([]color.RGBA, 0, len(c.Palette))
	for _, hex := range c.Palette {
		col, err := ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		colors = append(colors, col)
	}
	return colors, nil
}

// ParseHexColor 解析 "#RRGGBB" 或 "#RRGGBBAA"
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
