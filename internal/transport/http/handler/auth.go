package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"storefront/internal/domain"
	"storefront/internal/service"
	httpez "storefront/internal/transport/http/ez"
	mdw "storefront/internal/transport/http/middleware"
	resp "storefront/internal/transport/http/response"
)

type AuthHandler struct {
	svc *service.AuthService
	// LoginRate 每 IP 登录限速；零值表示不限
	LoginRate  rate.Limit
	LoginBurst int
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc, LoginRate: rate.Every(6 * time.Second), LoginBurst: 10}
}

func (h *AuthHandler) Priority() int { return 10 }

type loginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginOut struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type meOut struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

func (h *AuthHandler) Mount(r Routes) {
	login := r.Public.Group("/auth")
	if h.LoginRate > 0 {
		login.Use(mdw.RateLimitPerIP(h.LoginRate, h.LoginBurst))
	}
	httpez.Register(httpez.New(login), httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			sess, err := h.svc.Authenticate(c.Request.Context(), in.Username, in.Password)
			switch {
			case err == nil:
				mdw.LoginAttempts.WithLabelValues("ok").Inc()
			case errors.Is(err, domain.ErrInvalidCredentials):
				mdw.LoginAttempts.WithLabelValues("invalid").Inc()
			case !domain.IsValidation(err):
				mdw.LoginAttempts.WithLabelValues("error").Inc()
			}
			if err != nil {
				return loginOut{}, mapError(err, "Login failed")
			}
			return loginOut{Token: sess.Token, Username: sess.Username}, nil
		},
	})

	// /auth/me 不走鉴权中间件：未登录时返回 {authenticated:false}
	r.Public.GET("/auth/me", func(c *gin.Context) {
		claims, err := h.svc.Verify(c.Request.Context(), mdw.BearerToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, meOut{Authenticated: false})
			return
		}
		c.JSON(http.StatusOK, meOut{Authenticated: true, Username: claims.Username})
	})

	httpez.Register(httpez.New(r.Admin), httpez.Action[struct{}, resp.Success]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Success, error) {
			claims, ok := mdw.ClaimsFrom(c)
			if !ok {
				return resp.Success{}, httpez.Unauthorized("Unauthorized")
			}
			if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
				return resp.Success{}, httpez.Internal("Logout failed", err)
			}
			return resp.OK(), nil
		},
	})
}
