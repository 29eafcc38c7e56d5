package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/core/auth"
	resp "storefront/internal/transport/http/response"
)

const (
	CtxClaims   = "claims"
	CtxUsername = "username"
)

// Verifier 由 service.AuthService 实现
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// BearerToken 取 Authorization: Bearer <token>；缺失与 "null" 等价
func BearerToken(c *gin.Context) string {
	ah := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "Bearer ") {
		return ""
	}
	tok := strings.TrimSpace(ah[7:])
	if tok == "null" || tok == "undefined" {
		return ""
	}
	return tok
}

func AuthJWT(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.Verify(c.Request.Context(), BearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(resp.CodeUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
			return
		}
		c.Set(CtxClaims, claims)
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

// ClaimsFrom 取中间件放入的 claims
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*auth.Claims)
	return cl, ok
}
