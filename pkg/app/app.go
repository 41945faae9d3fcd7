// Package app 提供点赞动效查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"

	likeaudio "github.com/decker502/likefx/internal/audio"
	"github.com/decker502/likefx/internal/feed"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/embedded"
	"github.com/decker502/likefx/pkg/game"
	"github.com/decker502/likefx/pkg/input"
	"github.com/decker502/likefx/pkg/render"
	"github.com/decker502/likefx/pkg/stage"
	"github.com/decker502/likefx/pkg/systems"
	"github.com/decker502/likefx/pkg/utils"
)

// DefaultEffectConfigPath 内嵌的默认效果配置
const DefaultEffectConfigPath = "data/likefx.yaml"

// 点赞来源（补充 stage 中的通用来源）
const (
	SourceNative = "native" // 移动端原生界面
	SourceButton = "button" // 底部点赞按钮
)

// buttonPressDuration 按钮按下高亮持续的帧数
const buttonPressDuration = 8

var (
	backgroundColor    = color.RGBA{R: 0x14, G: 0x14, B: 0x1c, A: 0xff}
	buttonColor        = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30}
	buttonPressedColor = color.RGBA{R: 0xf2, G: 0x33, B: 0x4d, A: 0x90}
	buttonHeartColor   = []color.RGBA{{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// EffectConfigPath 磁盘上的效果配置，为空则使用内嵌的 data/likefx.yaml
	EffectConfigPath string
	// FeedURL 远程点赞推送地址（ws://...），为空则不连接
	FeedURL string
	// AutoPlay 启动时强制开启自动点赞（覆盖已保存的设置）
	AutoPlay bool
	// Seed 随机种子，0 表示按时间生成
	Seed uint64
	// DisableStorage 不读写 gdata 设置（测试、只读环境）
	DisableStorage bool
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	stage    *stage.Stage
	renderer *render.LikeRenderSystem
	audio    *game.AudioManager
	settings *game.SettingsManager
	feed     *feed.Client

	// 来自其他线程（移动端原生按钮）的点赞，在 Update 中统一处理
	asyncLikes atomic.Int32

	pointers          []image.Point
	buttonPressFrames int

	verbose                  bool
	showHUD                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器
//
// 使用内嵌配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	effect, err := LoadEffectConfig(cfg.EffectConfigPath)
	if err != nil {
		return nil, err
	}

	palette, err := effect.Colors()
	if err != nil {
		return nil, fmt.Errorf("调色板解析失败: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log.Printf("[App] Random seed: %d", seed)

	st, err := stage.New(effect, rnd)
	if err != nil {
		return nil, err
	}
	_, _, w, h := config.GetStageBounds(config.GameWindowWidth, config.GameWindowHeight)
	st.Resize(w, h)

	settings := game.NewSettingsManager(openStorage(cfg.DisableStorage))
	if cfg.AutoPlay {
		settings.SetAutoPlay(true)
	}
	st.SetAutoPlay(settings.GetSettings().AutoPlay, settings.GetSettings().AutoPlayInterval())

	// 初始化音频上下文
	audioContext := audio.CurrentContext()
	if audioContext == nil {
		audioContext = audio.NewContext(likeaudio.DefaultSampleRate)
	}
	audioManager := game.NewAudioManager(audioContext, settings)
	st.OnSpawn(func(systems.LikeHandle) {
		audioManager.PlayPop()
	})
	log.Printf("[App] AudioManager initialized")

	a := &App{
		stage:    st,
		renderer: render.NewLikeRenderSystem(st.EntityManager(), palette),
		audio:    audioManager,
		settings: settings,
		verbose:  cfg.Verbose,
		showHUD:  !utils.IsMobile(),
	}

	if cfg.FeedURL != "" {
		// 连接失败不影响本地点赞
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := feed.Dial(ctx, cfg.FeedURL, feed.DefaultClientConfig())
		cancel()
		if err != nil {
			log.Printf("[App] Warning: like feed unavailable: %v", err)
		} else {
			a.feed = client
			st.AttachFeed(client.Events())
			log.Printf("[App] Connected to like feed %s", cfg.FeedURL)
		}
	}

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return a, nil
}

// LoadEffectConfig 从磁盘或内嵌资源加载效果配置
func LoadEffectConfig(path string) (*config.LikeEffectConfig, error) {
	if path != "" {
		effect, err := config.LoadLikeEffectConfig(path)
		if err != nil {
			return nil, fmt.Errorf("效果配置加载失败: %w", err)
		}
		log.Printf("[Config] 加载效果配置: %s", path)
		return effect, nil
	}

	if !embedded.IsInitialized() {
		log.Printf("[Config] 内嵌资源未初始化，使用默认效果配置")
		return config.DefaultLikeEffectConfig(), nil
	}
	data, err := embedded.ReadFile(DefaultEffectConfigPath)
	if err != nil {
		return nil, fmt.Errorf("内嵌效果配置读取失败: %w", err)
	}
	effect, err := config.ParseLikeEffectConfig(data)
	if err != nil {
		return nil, fmt.Errorf("内嵌效果配置解析失败: %w", err)
	}
	return effect, nil
}

const storageAppName = "likefx"

// openStorage 打开 gdata 存储，失败时返回 nil（降级为仅内存设置）
func openStorage(disabled bool) *gdata.Manager {
	if disabled {
		return nil
	}
	if err := utils.EnsureStorageDir(storageAppName); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	m, err := gdata.Open(gdata.Config{AppName: storageAppName})
	if err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v", err)
		return nil
	}
	return m
}

// Update 更新查看器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleKeys()
	a.handlePointer()
	for n := a.asyncLikes.Swap(0); n > 0; n-- {
		a.stage.RequestLike(SourceNative)
	}

	a.audio.BeginFrame()
	deltaTime := 1.0 / float64(ebiten.TPS())
	a.stage.Update(deltaTime)
	return nil
}

func (a *App) handleKeys() {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.stage.RequestLike(stage.SourceKey)
	}

	// A 切换自动点赞
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		enabled := !a.stage.AutoPlay()
		a.settings.SetAutoPlay(enabled)
		a.stage.SetAutoPlay(enabled, a.settings.GetSettings().AutoPlayInterval())
		a.saveSettings()
		log.Printf("[App] Auto play: %v", enabled)
	}

	// M 切换音效
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.settings.SetSoundEnabled(!a.settings.GetSettings().SoundEnabled)
		a.saveSettings()
	}

	// C 清空所有点赞
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.stage.CancelAll()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
}

// handlePointer 点击或触摸容器任意位置都产生一个点赞
func (a *App) handlePointer() {
	a.pointers = input.AppendJustPressedPointers(a.pointers[:0])
	if len(a.pointers) == 0 {
		return
	}
	bx, by, bw, bh := config.GetLikeButtonRect(config.GameWindowWidth, config.GameWindowHeight)
	for _, p := range a.pointers {
		source := stage.SourceTap
		if utils.PointInRect(float64(p.X), float64(p.Y), bx, by, bw, bh) {
			source = SourceButton
			a.buttonPressFrames = buttonPressDuration
		}
		a.stage.RequestLike(source)
	}
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制查看器画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	a.drawLikeButton(screen)

	x, y, _, _ := config.GetStageBounds(config.GameWindowWidth, config.GameWindowHeight)
	a.renderer.Draw(screen, x, y)

	if a.showHUD {
		st := a.stage.Stats()
		s := a.settings.GetSettings()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
			"TPS %.0f  live %d  queued %d\nlikes %d  remote %d  dropped %d\n[A]uto %v  [M]ute %v",
			ebiten.ActualTPS(), st.Live, st.Pending, st.Spawned, st.Remote, st.Dropped,
			a.stage.AutoPlay(), !s.SoundEnabled,
		), 8, 8)
	}
}

// drawLikeButton 底部的点赞按钮（装饰，整个容器都可点击）
func (a *App) drawLikeButton(screen *ebiten.Image) {
	bx, by, bw, bh := config.GetLikeButtonRect(config.GameWindowWidth, config.GameWindowHeight)
	cx, cy := float32(bx+bw/2), float32(by+bh/2)
	radius := float32(bw / 2)
	fill := buttonColor
	if a.buttonPressFrames > 0 {
		a.buttonPressFrames--
		// 按下时略微缩小并加亮
		radius *= 0.92
		fill = buttonPressedColor
	}
	vector.DrawFilledCircle(screen, cx, cy, radius, fill, true)

	var path vector.Path
	render.AppendHeartPath(&path, float32(bx+bw*0.25), float32(by+bh*0.28), float32(bw*0.5), float32(bh*0.45))
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, al := systems.HeartColor(buttonHeartColor, 0, 1)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, al
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, whitePixel(), op)
}

var whiteSubImage *ebiten.Image

// whitePixel 返回 1x1 白色纹理，供 DrawTriangles 着色
func whitePixel() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// RequestLikeAsync 可在任意线程调用，点赞在下一帧生成
func (a *App) RequestLikeAsync() {
	a.asyncLikes.Add(1)
}

// Stage 返回点赞舞台
func (a *App) Stage() *stage.Stage {
	return a.stage
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Close 断开远程推送、保存设置并释放音频
func (a *App) Close() {
	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			log.Printf("[App] Warning: closing feed: %v", err)
		}
		a.feed = nil
	}
	a.saveSettings()
	a.audio.Close()
}
