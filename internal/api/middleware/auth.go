package middleware

import (
	"Lighthouse/internal/pkg/response"
	"Lighthouse/internal/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
)

// WorkerAuthMiddleware 校验注册时签发的 worker token，并将 worker 身份注入 Context
func WorkerAuthMiddleware(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set("worker_id", claims.WorkerID)
		c.Set("worker_region", claims.Region)

		c.Request = c.Request.WithContext(security.WithWorker(c.Request.Context(), claims))

		c.Next()
	}
}
