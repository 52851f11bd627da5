// Package server is a reference implementation of the three planner
// endpoints, for local development and for exercising the client against
// the same wire contract the deployed stage speaks.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/planner/internal/logging"
	"github.com/Makepad-fr/planner/internal/remote"
	"github.com/Makepad-fr/planner/internal/store"
)

// Options configures a Server.
type Options struct {
	Addr     string
	BasePath string
	// Plain makes mutation responses a single JSON object instead of the
	// legacy double-encoded string.
	Plain bool
}

// Server wires a Store to the planner endpoints.
type Server struct {
	store  store.Store
	opts   Options
	log    *slog.Logger
	engine *gin.Engine
}

// New builds the router. It does not start listening.
func New(st store.Store, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	opts.BasePath = "/" + strings.Trim(opts.BasePath, "/")
	if opts.BasePath == "/" {
		opts.BasePath = ""
	}

	s := &Server{
		store: st,
		opts:  opts,
		log:   logging.NewModuleLogger("server", "http"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), cors(), ensureUTF8Body())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group(opts.BasePath)
	g.GET(remote.PathList, s.handleList)
	g.POST(remote.PathAppend, s.handleAppend)
	g.POST(remote.PathDelete, s.handleDelete)

	s.engine = r
	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.opts.Addr, "base_path", s.opts.BasePath, "plain", s.opts.Plain)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
