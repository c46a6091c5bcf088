package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bionic-mail/backend/config"
	"github.com/bionic-mail/backend/pkg/logging"
)

const (
	// HeaderRequestID carries the per-request ID on responses.
	HeaderRequestID = "X-Request-ID"
	// HeaderCorrelationID carries the correlation ID on responses. Inbound
	// values are honored so callers can trace across services.
	HeaderCorrelationID = "X-Correlation-ID"
)

// RequestLogger returns a zap-based request logging middleware. It assigns a
// request ID and correlation ID, injects a request-scoped logger into the
// request context, and logs method, path, status, and duration. Query strings
// are redacted when the sensitive-data toggle is on; requests slower than the
// configured threshold are logged at Warn.
func RequestLogger(logger *zap.Logger, cfg config.LoggingConfig) gin.HandlerFunc {
	slowThreshold := time.Duration(cfg.SlowRequestMS) * time.Millisecond
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New().String()
		correlationID := c.GetHeader(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		reqLogger := logger
		if cfg.IncludeRequestID {
			reqLogger = logger.With(
				zap.String("request_id", requestID),
				zap.String("correlation_id", correlationID),
			)
		}
		ctx := logging.WithLogger(c.Request.Context(), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderCorrelationID, correlationID)

		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		}
		if !cfg.RedactSensitive {
			fields = append(fields, zap.String("query", c.Request.URL.RawQuery))
		}

		switch {
		case slowThreshold > 0 && latency > slowThreshold:
			reqLogger.Warn("slow request", fields...)
		default:
			reqLogger.Info("request", fields...)
		}
	}
}
