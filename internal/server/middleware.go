package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const subjectKey = "subject"

// rateLimiterStore holds one limiter per client IP.
type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	return &rateLimiterStore{limiters: make(map[string]*rate.Limiter), perMin: perMin}
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware allows perMin requests per minute per client IP.
func RateLimitMiddleware(perMin int, logger *zap.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			logger.Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid Bearer token. A nil service disables it.
func AuthMiddleware(jwtSvc *JWTService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := jwtSvc.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.Info("rejected token", zap.Error(err), zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// LoggerMiddleware writes one access log line per request.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if sub := c.GetString(subjectKey); sub != "" {
			fields = append(fields, zap.String("subject", sub))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
