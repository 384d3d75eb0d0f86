package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"gpa-tracker/pkg/redis"
	"gpa-tracker/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// 已登录请求按用户计数，匿名请求按 IP 计数；rdb 为 nil 时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), rateLimitKey(c), limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if uid := c.GetString("user_id"); uid != "" {
		return fmt.Sprintf("rate_limit:user:%s:%s", uid, c.FullPath())
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), c.FullPath())
}
