package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/auth"
	"github.com/dtereshin/callview/internal/config"
	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/mediaengine"
)

// tokensPerMinute caps token issuance across the whole server.
const tokensPerMinute = 120

// NewServer builds the HTTP server with all routes wired.
func NewServer(sessions *core.Sessions, authService *auth.Service, engine mediaengine.Engine, metrics *Metrics, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(logger))

	tokenLimit := newRateLimiter(tokensPerMinute)
	api := NewAPIHandlers(authService, sessions, engine, metrics, tokenLimit, logger)
	ws := NewWSHandler(sessions, authService, metrics, logger)

	r.GET("/health", func(c *gin.Context) { c.String(stdhttp.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	calls := r.Group("/api/calls")
	calls.POST("/:id/token", api.IssueToken)
	authed := calls.Group("", AuthMiddleware(authService, logger))
	authed.GET("/:id", api.GetSession)
	authed.POST("/:id/grid-mode", api.SetGridMode)
	authed.DELETE("/:id", api.EndSession)
	authed.GET("/:id/media", api.MediaJoinInfo)

	r.GET("/ws/:id", ws.Handle)

	srv := &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	limiterStop := make(chan struct{})
	tokenLimit.startReset(limiterStop)
	srv.RegisterOnShutdown(func() { close(limiterStop) })

	return srv
}
