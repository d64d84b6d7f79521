package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/auth"
	"github.com/dtereshin/callview/internal/config"
	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/mediaengine"
	lkengine "github.com/dtereshin/callview/internal/mediaengine/livekit"
	transporthttp "github.com/dtereshin/callview/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	sessions        *core.Sessions
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.Auth.Secret),
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
	}
	authService := auth.NewService(jwtConfig)

	var engine mediaengine.Engine
	if cfg.LiveKit.APIKey != "" && cfg.LiveKit.APISecret != "" {
		engine = lkengine.New(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.URL)
		logger.Info().Str("url", cfg.LiveKit.URL).Msg("livekit engine enabled")
	} else {
		logger.Warn().Msg("livekit credentials missing, media join info disabled")
	}

	sessions := core.NewSessions(cfg.Call.Settings(), clock.New(), logger)
	metrics := transporthttp.NewMetrics(sessions)
	server := transporthttp.NewServer(sessions, authService, engine, metrics, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		sessions:        sessions,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup destroys every live call session.
func (a *App) cleanup() {
	a.sessions.Close()
	a.log.Info().Msg("sessions closed")
}
