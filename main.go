package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/likefx/pkg/app"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "效果配置文件路径（默认使用内嵌的 data/likefx.yaml）")
	feedURL := flag.String("feed", "", "远程点赞推送地址，例如 ws://localhost:8686/likes")
	autoPlay := flag.Bool("autoplay", false, "启动时开启自动点赞")
	seed := flag.Uint64("seed", 0, "随机种子（0 表示按时间生成）")
	noSave := flag.Bool("nosave", false, "不读写本地设置")
	flag.Parse()

	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:          *verbose,
		EffectConfigPath: *configPath,
		FeedURL:          *feedURL,
		AutoPlay:         *autoPlay,
		Seed:             *seed,
		DisableStorage:   *noSave,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("LikeFX - 点赞飘心")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := runAndClose(viewer, ebiten.RunGame); err != nil {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}

// closableGame 退出时需要保存设置、断开推送的游戏
type closableGame interface {
	ebiten.Game
	Close()
}

// runAndClose 运行游戏循环，无论成功与否都先 Close 再返回
// 调用方随后可能 os.Exit，而 os.Exit 不会执行 defer
func runAndClose(g closableGame, run func(ebiten.Game) error) error {
	defer g.Close()
	return run(g)
}
