package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Lysander66/census-stream/census/censustest"
	"github.com/Lysander66/census-stream/pkg/capture"
	"github.com/Lysander66/census-stream/pkg/message"
)

type ServerConfig struct {
	Addr      string        `env:"MOCK_ADDR" envDefault:":8080"`
	Heartbeat time.Duration `env:"MOCK_HEARTBEAT" envDefault:"30s"`
	Logins    time.Duration `env:"MOCK_LOGINS" envDefault:"2s"`
	Replay    string        `env:"MOCK_REPLAY"`
	Pace      bool          `env:"MOCK_REPLAY_PACE" envDefault:"true"`
}

func main() {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse env", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := censustest.NewServer()
	go srv.Heartbeat(ctx, cfg.Heartbeat)

	if cfg.Replay != "" {
		go replay(ctx, srv, cfg.Replay, cfg.Pace)
	} else if cfg.Logins > 0 {
		go generateLogins(ctx, srv, cfg.Logins)
	}

	mux := http.NewServeMux()
	mux.Handle("/streaming", srv)
	httpServer := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	slog.Info("🚀 mock push service", "addr", cfg.Addr, "url", "ws://localhost"+cfg.Addr+"/streaming?environment=ps2&service-id=s:example")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("listen", "err", err)
		os.Exit(1)
	}
}

func replay(ctx context.Context, srv *censustest.Server, path string, pace bool) {
	// Give clients a moment to connect and subscribe.
	for srv.Connections() == 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}

	r, err := capture.Open(path)
	if err != nil {
		slog.Error("open capture", "err", err)
		return
	}
	defer r.Close()

	if err := srv.Replay(ctx, r, pace); err != nil {
		slog.Error("replay", "err", err)
		return
	}
	slog.Info("replay finished", "path", path)
}

// generateLogins publishes a login or logout for a random character on a
// random known world every interval.
func generateLogins(ctx context.Context, srv *censustest.Server, interval time.Duration) {
	worlds := make([]message.WorldID, 0, len(message.Worlds))
	for _, id := range message.Worlds {
		worlds = append(worlds, id)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			character := message.CharacterID(5428000000000000000 + uint64(rand.Int63n(1_000_000_000_000)))
			world := worlds[rand.Intn(len(worlds))]
			at := message.Timestamp(now.Unix())
			if rand.Intn(2) == 0 {
				srv.Publish(censustest.LoginFrame(character, world, at))
			} else {
				srv.Publish(censustest.LogoutFrame(character, world, at))
			}
		}
	}
}
