package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestLogger tags every request with an id and logs method, path, status
// and latency once the handler chain finishes.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-ID", rid)

		c.Next()

		evt := logger.Info()
		if c.Writer.Status() >= 500 {
			evt = logger.Error()
		}
		evt.
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.ClientIP()).
			Msg("request")
	}
}
