package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
)

func RequestLogger(logger outbound.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.InfoWithFields("request", map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		})
	}
}
