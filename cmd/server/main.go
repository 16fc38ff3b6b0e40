package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/SithilSemitha/omi-web/internal/config"
	"github.com/SithilSemitha/omi-web/internal/logger"
	"github.com/SithilSemitha/omi-web/internal/room"
	"github.com/SithilSemitha/omi-web/internal/ws"
)

// newRouter wires the HTTP surface: health check, room status and the
// WebSocket endpoint.
func newRouter(cfg config.Config, hub *ws.Hub, rooms *room.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "OK") })

	r.GET("/api/rooms/:roomId", func(ctx *gin.Context) {
		snap, ok := rooms.Snapshot(ctx.Param("roomId"))
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
			return
		}
		ctx.JSON(http.StatusOK, snap)
	})

	handler := ws.NewHandler(hub, rooms, ws.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      rate.Limit(cfg.WSRateLimit),
		RateBurst:      cfg.WSRateBurst,
		PingInterval:   cfg.WSPingInterval,
	})
	r.GET("/ws", handler.ServeWS)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status", ctx.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Setup(zerolog.InfoLevel, "console")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	hub := ws.NewHub(log.Logger)
	rooms := room.NewManager(hub)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, hub, rooms),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Strs("origins", cfg.AllowedOrigins).Msg("omi server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
