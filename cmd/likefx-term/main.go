// Package main runs the like effect in a terminal.
//
// Usage:
//
//	go run ./cmd/likefx-term [flags]
//
// Flags:
//
//	--config <path>     Effect config (default: built-in defaults)
//	--feed <url>        Remote like feed, e.g. ws://localhost:8686/likes
//	--auto-play         Spawn a like every --interval
//	--interval <dur>    Auto play interval (default 300ms)
//	--sound             Play a pop for every like
//	--log <path>        Write logs to a file (the terminal is owned by the UI)
//
// Controls:
//
//	Space / Enter / L / Click - Spawn a like
//	A                         - Toggle auto play (every --interval)
//	C                         - Clear all likes
//	H                         - Toggle status line
//	Q / Escape                - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/likefx/internal/feed"
	"github.com/decker502/likefx/internal/termhost"
	"github.com/decker502/likefx/pkg/config"
	"github.com/decker502/likefx/pkg/stage"
)

var (
	configFlag   = flag.String("config", "", "Effect config YAML path")
	feedFlag     = flag.String("feed", "", "Remote like feed URL (ws://...)")
	autoPlayFlag = flag.Bool("auto-play", false, "Spawn likes automatically")
	intervalFlag = flag.Duration("interval", 300*time.Millisecond, "Auto play interval")
	soundFlag    = flag.Bool("sound", false, "Play a pop for every like")
	volumeFlag   = flag.Float64("volume", 0.6, "Pop volume 0.0 ~ 1.0")
	logFlag      = flag.String("log", "", "Log file path (logging is off when empty)")
	seedFlag     = flag.Uint64("seed", 0, "Random seed (0 = time based)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "likefx-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	effect := config.DefaultLikeEffectConfig()
	if *configFlag != "" {
		var err error
		if effect, err = config.LoadLikeEffectConfig(*configFlag); err != nil {
			return err
		}
	}
	palette, err := effect.Colors()
	if err != nil {
		return err
	}

	seed := *seedFlag
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	st, err := stage.New(effect, rand.New(rand.NewPCG(seed, seed>>1|1)))
	if err != nil {
		return err
	}
	st.SetAutoPlay(*autoPlayFlag, *intervalFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *feedFlag != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := feed.Dial(dialCtx, *feedFlag, feed.DefaultClientConfig())
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		st.AttachFeed(client.Events())
	}

	var sound termhost.Sound
	if *soundFlag {
		s := termhost.NewSpeakerSound(*volumeFlag)
		if err := s.Initialize(); err != nil {
			// 没有声卡时静默运行
			log.Printf("[likefx-term] Audio initialization failed: %v", err)
		} else {
			defer s.Cleanup()
			sound = s
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	opts := termhost.DefaultOptions()
	opts.AutoPlayInterval = *intervalFlag
	host := termhost.New(screen, st, palette, sound, opts)
	if err := host.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
