// Package debug serves a local read-only diagnostics endpoint: the current
// session-state snapshot as JSON. Bind it to localhost only.
package debug

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SnapshotFunc returns a copy of the current session state.
type SnapshotFunc func() any

func SetupRouter(mode string, snapshot SnapshotFunc) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, snapshot())
	})

	return r
}

// Serve runs the diagnostics server until ctx is canceled.
func Serve(ctx context.Context, addr, mode string, snapshot SnapshotFunc) {
	srv := &http.Server{
		Addr:    addr,
		Handler: SetupRouter(mode, snapshot),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("module", "adapters.debug").Str("addr", addr).Msg("diagnostics server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Str("module", "adapters.debug").Msg("diagnostics server error")
	}
}
