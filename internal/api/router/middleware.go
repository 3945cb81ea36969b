package router

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cuongbtq/recruit-proxy/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation ID in both directions
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"

	// PreflightMessage is the body returned for OPTIONS requests
	PreflightMessage = "CORS Preflight Check Succeeded"
)

// RequestIDMiddleware propagates or assigns a request ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Process request
		c.Next()

		latency := time.Since(start)

		logger.Info("HTTP Request",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Duration("latency", latency),
			slog.Int("body_size", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				logger.Error("Request error",
					slog.String("request_id", c.GetString(requestIDKey)),
					slog.String("error", e.Error()),
					slog.Uint64("type", uint64(e.Type)),
				)
			}
		}
	}
}

// CORSMiddleware applies one cross-origin policy to every response,
// errors included, and answers preflight requests before any handler runs.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	allowMethods := strings.Join(cfg.AllowMethods, ", ")

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.AllowOrigin)
		if allowHeaders != "" {
			c.Header("Access-Control-Allow-Headers", allowHeaders)
		}
		if allowMethods != "" {
			c.Header("Access-Control-Allow-Methods", allowMethods)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"message": PreflightMessage})
			return
		}

		c.Next()
	}
}

// RecoveryMiddleware turns panics into the standard error body
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Server Error: internal failure.",
		})
	})
}
