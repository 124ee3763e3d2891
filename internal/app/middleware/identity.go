package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dananjarukshan/CBC-Website/internal/domain/services"
	"github.com/dananjarukshan/CBC-Website/internal/error/code"
	"github.com/dananjarukshan/CBC-Website/internal/error/response"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
)

// identityKey 请求上下文中存放令牌声明的键
const identityKey = "identity"

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// ExtractIdentity 解析请求的身份。
// 没有Authorization头的请求以未认证身份继续；携带无效或过期令牌的请求被拒绝。
func ExtractIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// 未携带令牌不是错误，以未认证身份继续
			c.Next()
			return
		}

		tokenString := extractToken(authHeader)
		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			response.FailWithMessage(c, code.ErrTokenInvalid, "Invalid token: "+err.Error(), nil)
			c.Abort()
			return
		}

		// 存储claims到上下文
		c.Set(identityKey, claims)
		c.Next()
	}
}

// CurrentIdentity 返回请求的令牌声明，未认证时返回nil
func CurrentIdentity(c *gin.Context) *services.TokenClaims {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*services.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAdmin 验证管理员权限
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsAdmin() {
			response.Forbidden(c, "Access denied. Admins only.")
			c.Abort()
			return
		}
		c.Next()
	}
}
