package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"HoldemServer/internal/utils"
)

// RequestLogger 每个请求一行日志，5xx 记 error，4xx 记 warn
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"took", time.Since(start),
		}
		if p := c.GetString(CtxPlayerID); p != "" {
			kv = append(kv, "player", p)
		}
		switch {
		case status >= 500:
			utils.Log.Error("request", kv...)
		case status >= 400:
			utils.Log.Warn("request", kv...)
		default:
			utils.Log.Debug("request", kv...)
		}
	}
}
