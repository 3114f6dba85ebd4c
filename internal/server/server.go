// Package server exposes the skater search over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/filter"
	"github.com/pfrederiksen/skate-results/internal/logger"
	"github.com/pfrederiksen/skate-results/internal/result"
	"github.com/pfrederiksen/skate-results/internal/search"
)

const (
	RequestIDHeader = "X-Request-ID"
	ctxRequestIDKey = "request_id"

	notFoundMessage = "JSFサイトでデータが見つかりませんでした"
	timeoutMessage  = "サーバー処理がタイムアウトしました。しばらく待ってから再度お試しください。"
	errorMessage    = "サーバーエラーが発生しました"
)

// Searcher runs one bounded search.
type Searcher interface {
	SearchWithTimeout(ctx context.Context, name string, sources []*catalog.Source) ([]*result.Result, error)
}

// Config describes how the service is exposed.
type Config struct {
	Addr        string
	StaticDir   string // serves index.html at / and assets under /static; empty disables
	Environment string // reported by /debug
}

// Server answers search requests against a fixed list of sources.
type Server struct {
	searcher Searcher
	sources  []*catalog.Source
	cfg      Config
}

// New returns a Server that searches sources through searcher. The sources
// are the unfiltered catalog; each request may narrow them with query
// parameters.
func New(searcher Searcher, sources []*catalog.Source, cfg Config) *Server {
	return &Server{searcher: searcher, sources: sources, cfg: cfg}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(), cors())
	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Warn("Failed to disable trusted proxies", logger.Fields{"error": err.Error()})
	}

	router.GET("/health", s.health)
	router.GET("/debug", s.debug)

	api := router.Group("/api")
	api.GET("/search/:playerName", s.search)

	if s.cfg.StaticDir != "" {
		router.Static("/static", s.cfg.StaticDir)
		router.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(s.cfg.StaticDir, "index.html"))
		})
	}

	return router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", logger.Fields{
			"addr":         s.cfg.Addr,
			"competitions": len(s.sources),
		})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": timestamp(),
	})
}

func (s *Server) debug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"environment":        s.cfg.Environment,
		"port":               s.cfg.Addr,
		"competitions_count": len(s.sources),
		"timestamp":          timestamp(),
		"metrics":            logger.GetMetricsSnapshot(),
	})
}

func (s *Server) search(c *gin.Context) {
	name := strings.TrimSpace(c.Param("playerName"))
	reqID := c.GetString(ctxRequestIDKey)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "選手名を入力してください",
			"timestamp": timestamp(),
		})
		return
	}

	f, err := queryFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   err.Error(),
			"timestamp": timestamp(),
		})
		return
	}
	sources := f.Apply(s.sources)

	logger.Info("Search requested", logger.Fields{
		"request_id": reqID,
		"player":     name,
		"sources":    len(sources),
		"filter":     f.String(),
	})

	results, err := s.searcher.SearchWithTimeout(c.Request.Context(), name, sources)
	if err != nil {
		errorType, message := "server_error", errorMessage
		if errors.Is(err, search.ErrTimeout) {
			errorType, message = "timeout", timeoutMessage
		}
		logger.Error("Search failed", logger.Fields{
			"request_id": reqID,
			"player":     name,
			"error_type": errorType,
		}, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"message":    message,
			"error_type": errorType,
			"timestamp":  timestamp(),
		})
		return
	}

	if len(results) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":   false,
			"message":   notFoundMessage,
			"timestamp": timestamp(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         results,
		"timestamp":    timestamp(),
		"search_count": len(results),
	})
}

// queryFilter reads the optional season and competition query parameters.
func queryFilter(c *gin.Context) (*filter.Filter, error) {
	f := filter.NewFilter()
	if season := c.Query("season"); season != "" {
		seasons, err := filter.ParseSeasons(season)
		if err != nil {
			return nil, err
		}
		f.Seasons = seasons
	}
	f.Competitions = filter.ParseList(c.Query("competition"))
	f.Organizers = filter.ParseList(c.Query("organizer"))
	return f, nil
}

// requestID tags every request with a fresh id, echoed in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(ctxRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// cors lets a browser page on any origin call the API with credentials.
// Preflight requests are answered here and never reach a route.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request", logger.Fields{
			"request_id": c.GetString(ctxRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		logger.RecordTiming("http.request", time.Since(start))
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
