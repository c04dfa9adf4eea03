package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibhusapra/phoenix/internal/pkg/auth"
)

// ZapLogger logs each request. API paths (/api/*) are logged at info level, everything else
// at debug level.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"clientIP", c.ClientIP(),
			"requestId", c.GetString(requestIDKey),
		}
		if p := auth.FromGin(c); p != nil {
			fields = append(fields, "userId", p.Identity)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		if strings.HasPrefix(path, "/api/") {
			sugar.Infow("HTTP", fields...)
		} else {
			sugar.Debugw("HTTP", fields...)
		}
	}
}
