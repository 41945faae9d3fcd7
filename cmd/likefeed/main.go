// Package main runs a standalone like feed hub.
//
// It serves WebSocket viewers at /likes and publishes random likes, as if
// an audience were tapping. Viewers connect with --feed ws://host:port/likes.
//
// Usage:
//
//	go run ./cmd/likefeed [flags]
//
// Flags:
//
//	--addr <host:port>   Listen address (default :8686)
//	--rate <n>           Average likes per second (default 4)
//	--max-count <n>      Largest tap burst in a single event (default 3)
//	--verbose            Log every published event
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/decker502/likefx/internal/feed"
)

var (
	addrFlag     = flag.String("addr", ":8686", "Listen address")
	rateFlag     = flag.Float64("rate", 4, "Average likes per second")
	maxCountFlag = flag.Int("max-count", 3, "Largest tap burst per event")
	verboseFlag  = flag.Bool("verbose", false, "Log every published event")
)

var audience = []string{"lin", "mia", "kai", "zoe", "jun", "ava", "leo", "ivy"}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "likefeed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *rateFlag <= 0 {
		return fmt.Errorf("--rate must be > 0, got %v", *rateFlag)
	}
	maxCount := min(max(*maxCountFlag, 1), feed.MaxCountPerEvent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := feed.NewHub(feed.DefaultHubConfig())
	mux := http.NewServeMux()
	mux.Handle("/likes", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		published, dropped := hub.Stats()
		fmt.Fprintf(w, "viewers=%d published=%d dropped=%d\n", hub.ClientCount(), published, dropped)
	})

	srv := &http.Server{
		Addr:              *addrFlag,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[likefeed] Listening on %s", *addrFlag)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 令牌桶控制平均速率，突发上限为 maxCount
	limiter := rate.NewLimiter(rate.Limit(*rateFlag), maxCount)

	emit := func() error {
		n := 1 + rand.IntN(maxCount)
		if err := limiter.WaitN(ctx, n); err != nil {
			return err
		}
		ev := feed.NewLikeEvent(audience[rand.IntN(len(audience))], n)
		if err := hub.Publish(ev); err != nil {
			return err
		}
		if *verboseFlag {
			log.Printf("[likefeed] %s x%d -> %d viewers", ev.User, ev.Count, hub.ClientCount())
		}
		return nil
	}

	var runErr error
loop:
	for {
		select {
		case err, ok := <-errCh:
			if ok {
				runErr = err
			}
			break loop
		default:
		}
		if err := emit(); err != nil {
			if ctx.Err() == nil {
				runErr = err
			}
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[likefeed] Shutdown: %v", err)
	}
	return runErr
}
