package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gpa-tracker/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// maxBytes: 允许的最大请求体字节数（如 2<<20 = 2MB）。
// Content-Length 已知且超限时直接返回 413；未知长度时由 MaxBytesReader 在读取阶段截断。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.Header("Connection", "close")
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
