package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gitgauge/gitgauge/internal/analysis"
	"github.com/gitgauge/gitgauge/internal/cache"
	"github.com/gitgauge/gitgauge/internal/config"
	"github.com/gitgauge/gitgauge/internal/errors"
	"github.com/gitgauge/gitgauge/internal/export"
	"github.com/gitgauge/gitgauge/internal/githubapi"
	"github.com/gitgauge/gitgauge/internal/model"
	"github.com/gitgauge/gitgauge/internal/monitoring"
	"github.com/gitgauge/gitgauge/internal/narrative"
	"github.com/gitgauge/gitgauge/internal/ratelimit"
)

// analyzeService is the surface the handlers need from the analyzer.
type analyzeService interface {
	Analyze(ctx context.Context, username string) (*model.AnalysisReport, bool, error)
}

// cacheAdmin is the surface the cache endpoints need from the store.
type cacheAdmin interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
	Delete(ctx context.Context, username string) error
}

type server struct {
	analyzer analyzeService
	cache    cacheAdmin
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	timeout  time.Duration
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger.Logger)
	metrics := monitoring.NewMetrics()

	store, err := cache.NewStore(cfg.DataDir, cfg.CacheTTL)
	if err != nil {
		slog.Error("Failed to initialize report cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	generator, err := narrative.NewGenerator(context.Background(), cfg.GeminiAPIKey, logger, metrics)
	if err != nil {
		slog.Error("Failed to initialize narrative generator", "error", err)
		os.Exit(1)
	}

	fetcher := githubapi.NewClient(cfg.GithubToken, cfg.MaxAnalyzedRepos, logger, metrics)
	analyzer := analysis.NewAnalyzer(fetcher, generator, store, logger, metrics)

	// Sweep expired cache rows daily.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := store.PurgeExpired(context.Background()); err != nil {
				slog.Error("Cache purge failed", "error", err)
			} else if n > 0 {
				slog.Info("Purged expired cache entries", "count", n)
			}
		}
	}()

	s := &server{
		analyzer: analyzer,
		cache:    store,
		metrics:  metrics,
		logger:   logger,
		timeout:  cfg.RequestTimeout,
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router := s.setupRouter(limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func (s *server) setupRouter(limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	r.Use(monitoring.Middleware(s.metrics, s.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.POST("/analyze", s.handleAnalyze)
	r.GET("/report/:username/export", s.handleExport)
	r.GET("/cache/stats", s.handleCacheStats)
	r.DELETE("/cache/:username", s.handleCacheDelete)

	return r
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"metrics":   s.metrics.GetStats(),
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *server) handleAnalyze(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	// ShouldBindJSON leaves the response untouched so the error
	// middleware stays the only writer.
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("request body must be JSON with a username field"))
		return
	}

	username, err := githubapi.ParseUsername(req.Username)
	if err != nil {
		c.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	report, cached, err := s.analyzer.Analyze(ctx, username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"cached": cached,
	})
}

func (s *server) handleExport(c *gin.Context) {
	username, err := githubapi.ParseUsername(c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	format := c.DefaultQuery("format", export.FormatJSON)
	contentType, err := export.ContentType(format)
	if err != nil {
		c.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	report, _, err := s.analyzer.Analyze(ctx, username)
	if err != nil {
		c.Error(err)
		return
	}

	body, err := export.Render(report, format)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+username+"-analysis."+fileExtension(format))
	c.Data(http.StatusOK, contentType, body)
}

func (s *server) handleCacheStats(c *gin.Context) {
	stats, err := s.cache.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *server) handleCacheDelete(c *gin.Context) {
	username, err := githubapi.ParseUsername(c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	if err := s.cache.Delete(c.Request.Context(), username); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache entry removed", "username": username})
}

func fileExtension(format string) string {
	if format == export.FormatMarkdown {
		return "md"
	}
	return "json"
}
