// Package server assembles the HTTP stack: gin engine, middleware, rate limiting and lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	v1 "github.com/foodgram-api/api/v1"
	"github.com/foodgram-api/config"
	"github.com/foodgram-api/logger"
	"github.com/foodgram-api/metrics"
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// NewEngine builds the gin engine with every route mounted
func NewEngine(cfg config.Config, db *gorm.DB, svc *services.Services, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(m))
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	health := v1.NewHealthController(db)
	router.GET("/health", health.HealthCheck)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.Static(cfg.MediaURL, cfg.MediaRoot)

	v1.RegisterRoutes(router.Group("/api"), svc)
	return router
}

// New wraps the engine in a per-IP rate limiter and an http.Server with timeouts
func New(cfg config.Config, engine http.Handler) *http.Server {
	handler := engine
	if cfg.RateLimitPerMinute > 0 {
		handler = httprate.Limit(
			cfg.RateLimitPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		)(engine)
	}

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.L().WithField("addr", srv.Addr).Info("foodgram api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"status":"error","message":"Too many requests"}`))
}
