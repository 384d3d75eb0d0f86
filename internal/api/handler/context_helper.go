package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"gpa-tracker/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenRemaining 读取当前 Access Token 的 jti 与剩余有效期
func tokenRemaining(c *gin.Context) (string, time.Duration) {
	jti := c.GetString("token_jti")
	exp, ok := c.Get("token_exp")
	if !ok {
		return jti, 0
	}
	t, ok := exp.(time.Time)
	if !ok {
		return jti, 0
	}
	if d := time.Until(t); d > 0 {
		return jti, d
	}
	return jti, 0
}
