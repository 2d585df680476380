// Package server exposes the viewer operations as a JSON API for a browser
// front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jpfielding/dicomview.go/pkg/config"
	"github.com/jpfielding/dicomview.go/pkg/dicomview"
	"github.com/jpfielding/dicomview.go/pkg/files"
	"github.com/jpfielding/dicomview.go/pkg/logging"
)

// MaxUploadMemory bounds the in-memory part of a multipart upload
const MaxUploadMemory = 64 << 20

// Server holds the loaded files and serves the API
type Server struct {
	engine   *dicomview.Engine
	registry *files.Registry
	server   config.ServerConfig
	viewer   config.ViewerConfig
	router   *gin.Engine
}

// New wires the routes; a nil engine uses the embedded module table
func New(engine *dicomview.Engine, srv config.ServerConfig, viewer config.ViewerConfig) (*Server, error) {
	if engine == nil {
		engine = dicomview.NewEngine(nil)
	}
	s := &Server{
		engine:   engine,
		registry: files.NewRegistry(viewer.MaxLoadedFiles, files.NewColourDictionary()),
		server:   srv,
		viewer:   viewer,
	}
	router, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// Registry is the store of uploaded files
func (s *Server) Registry() *files.Registry {
	return s.registry
}

// Handler is the root http handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() (*gin.Engine, error) {
	router := gin.New()
	router.MaxMultipartMemory = MaxUploadMemory
	router.Use(requestContext(), gin.Recovery())

	if len(s.server.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		if slices.Contains(s.server.CORSOrigins, "*") {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = s.server.CORSOrigins
		}
		cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
		cfg.ExposeHeaders = []string{"X-Request-ID"}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid cors config: %w", err)
		}
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", s.health)
	api := router.Group("/api")
	{
		modules := api.Group("/modules")
		{
			modules.GET("/tags/:tag", s.modulesOfTag)
			modules.GET("/sop/:uid", s.modulesOfSOPClass)
		}
		api.POST("/classify", s.classify)
		api.POST("/compare", s.compare)

		fs := api.Group("/files")
		{
			fs.POST("", s.upload)
			fs.GET("", s.list)
			fs.GET("/current", s.current)
			fs.POST("/compare", s.compareLoaded)
			fs.GET("/:id/view", s.view)
			fs.POST("/:id/current", s.setCurrent)
			fs.POST("/:id/select", s.selectFile)
			fs.DELETE("/:id/select", s.deselectFile)
			fs.DELETE("/:id", s.remove)
		}
	}
	return router, nil
}

// requestContext tags every request with an id and logs it once served
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		ctx := logging.AppendCtx(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run serves on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "listening", "addr", s.server.Addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.InfoContext(ctx, "shutting down", "addr", s.server.Addr)
	if err := hs.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
