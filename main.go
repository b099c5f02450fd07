package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guesscity/internal/config"
	"github.com/robalobadob/guesscity/internal/game"
	"github.com/robalobadob/guesscity/internal/gameclient"
	"github.com/robalobadob/guesscity/internal/httpserver"
	"github.com/robalobadob/guesscity/internal/metrics"
	"github.com/robalobadob/guesscity/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	client := gameclient.New(gameclient.Options{
		BaseURL:    cfg.GameAPIURL,
		HTTPClient: newHTTPClient(cfg.GameAPITimeout),
		Observer:   gameclient.Observers{gameclient.LogObserver{}, metrics.DiagnosticObserver{}},
	})

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, httpserver.Options{
		Client:             client,
		ControllerOptions:  []game.Option{game.WithUnreachableMessage(cfg.UnreachableMessage)},
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SessionsPerMinute:  cfg.SessionsPerMinute,
		CookieSecure:       cfg.CookieSecure,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweepLoop(ctx, srv, cfg.SessionIdleTTL)

	log.Info().Str("port", cfg.Port).Str("game_api", client.BaseURL()).Msg("starting guesscity")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// sweepLoop evicts idle browser sessions until ctx is done.
func sweepLoop(ctx context.Context, srv *httpserver.Server, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := srv.Sweep(idle); n > 0 {
				log.Debug().Int("evicted", n).Msg("swept idle sessions")
			}
		}
	}
}
