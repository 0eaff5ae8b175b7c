package middleware

import (
	"club-activity-system/internal/global/cache"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"strings"

	"github.com/gin-gonic/gin"
)

// Auth 认证中间件：校验 Bearer 令牌并把载荷挂到 context
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, response.ErrUnauthorized)
			c.Abort()
			return
		}

		// 检查 Bearer 前缀并提取 token
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		// 已注销的令牌不再接受
		if cache.IsTokenBlacklisted(c.Request.Context(), token) {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		c.Set("payload", payload)
		c.Set("token", token)
		c.Next()
	}
}

// RequireRole 角色门禁，需在 Auth 之后使用；角色编号无大小语义，按白名单匹配
func RequireRole(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := jwt.GetUserPayload(c)
		if !ok {
			response.Fail(c, response.ErrUnauthorized)
			c.Abort()
			return
		}
		for _, role := range roles {
			if payload.RoleID == role {
				c.Next()
				return
			}
		}
		response.Fail(c, response.ErrForbidden)
		c.Abort()
	}
}
