package middleware

import (
	"github.com/gin-gonic/gin"
	ginzap "github.com/gin-contrib/zap"
	"go.uber.org/zap"

	resp "storefront/internal/transport/http/response"
)

// Recovery panic 记录堆栈，客户端只拿到通用错误
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(resp.CodeServerError, resp.Error(resp.CodeServerError, ""))
	})
}
