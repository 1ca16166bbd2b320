// Package server exposes plan generation over HTTP with gin.
package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
)

// MetricsReader is the read side of the metrics store.
type MetricsReader interface {
	GetDailyRuns(ctx context.Context, days int) ([]metrics.DailyRuns, error)
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
	GetTopLocations(ctx context.Context, days, limit int) ([]metrics.LocationCount, error)
}

// Options configure the HTTP layer.
type Options struct {
	JWTSecret       string
	RateLimitPerMin int
	AllowedOrigins  []string
	DatabasePath    string
	// TrustedProxies may set X-Forwarded-For / X-Real-IP. Empty trusts none.
	TrustedProxies []string
}

// Server routes HTTP requests to the App.
type Server struct {
	app     *app.App
	metrics MetricsReader
	opts    Options
	logger  *zap.Logger
	engine  *gin.Engine
}

// New builds the gin engine. metricsReader may be nil.
func New(a *app.App, metricsReader MetricsReader, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = 100
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{app: a, metrics: metricsReader, opts: opts, logger: logger}
	s.engine = s.routes()
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(s.opts.TrustedProxies); err != nil {
		s.logger.Error("invalid trusted proxies, trusting none", zap.Strings("proxies", s.opts.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(s.logger))
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(s.opts.AllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.opts.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(RateLimitMiddleware(s.opts.RateLimitPerMin, s.logger))

	r.GET("/health", s.handleHealth)

	var jwtSvc *JWTService
	if s.opts.JWTSecret != "" {
		jwtSvc = NewJWTService(s.opts.JWTSecret)
	}

	api := r.Group("/api")
	{
		api.GET("/locations", s.handleLocations)
		api.GET("/calories/distribution", s.handleDistribution)

		protected := api.Group("")
		protected.Use(AuthMiddleware(jwtSvc, s.logger))
		protected.POST("/plan-dieta", s.handlePlan)
		protected.POST("/plan-dieta/html", s.handlePlanHTML)
		protected.GET("/metrics/daily", s.handleDailyMetrics)
	}
	return r
}
