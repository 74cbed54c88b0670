package middleware

import (
	"Wayfarer/internal/shared/security"
	"Wayfarer/internal/shared/transport"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxKeySubject = "subject"

// BearerAuth 校验 Authorization: Bearer <jwt>，scope 非空时要求令牌带该 scope。
// 未配置 JWT_SECRET 时放行，便于本地开发。
func BearerAuth(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := strings.CutPrefix(strings.TrimSpace(c.GetHeader("Authorization")), "Bearer ")
		claims, err := security.ParseToken(strings.TrimSpace(token))
		if errors.Is(err, security.ErrJWTSecretMissing) {
			c.Next()
			return
		}
		if err != nil {
			transport.SetBizCode(c.Request.Context(), transport.Unauthorized)
			transport.SetErrorReason(c.Request.Context(), "TOKEN_INVALID")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": transport.Unauthorized,
				"msg":  "token 无效",
			})
			return
		}
		if scope != "" && !claims.HasScope(scope) {
			transport.SetBizCode(c.Request.Context(), transport.Forbidden)
			transport.SetErrorReason(c.Request.Context(), "SCOPE_MISSING")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": transport.Forbidden,
				"msg":  "权限不足",
			})
			return
		}
		c.Set(CtxKeySubject, claims.Subject)
		c.Next()
	}
}
