// Package monitor serves a read-only HTTP view of the artifact workspace:
// which task families exist, what they have stored, and how past runs
// went. It never mutates artifacts, so it is safe to point at a live data
// directory.
package monitor

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relay-run/relay/internal/logger"
	"github.com/relay-run/relay/internal/store"
)

const shutdownGrace = 5 * time.Second

// Server exposes the monitor API over HTTP.
type Server struct {
	ws     *store.Workspace
	addr   string
	engine *gin.Engine
}

// New builds a monitor server over the given workspace.
func New(ws *store.Workspace, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{ws: ws, addr: addr, engine: engine}
	engine.GET("/healthz", s.health)
	api := engine.Group("/api")
	api.GET("/status", s.status)
	api.GET("/families", s.families)
	api.GET("/families/:family", s.family)
	api.GET("/runs", s.runs)
	api.GET("/runs/:id", s.run)
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logger.User.Startingf("Monitor listening on http://%s", s.addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Op.Info("Shutting down monitor")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Op.Debugf("HTTP %s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
