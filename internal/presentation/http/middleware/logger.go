package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invowise-api/pkg/logger"
	"github.com/sangkips/invowise-api/pkg/utils"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware assigns a request id and writes one structured entry per request
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("request rejected", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}

// RecoveryMiddleware turns panics into a 500 response and logs them
func RecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorw("panic recovered",
			"request_id", c.GetString(response.RequestIDKey),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		response.ErrorWithCode(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}
