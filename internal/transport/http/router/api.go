package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/core/server"
	"storefront/internal/service"
	"storefront/internal/transport/http/handler"
	mdw "storefront/internal/transport/http/middleware"
)

// Deps 装配好的业务服务
type Deps struct {
	Auth     *service.AuthService
	Items    *service.ItemService
	Uploads  *service.UploadService
	Checkout *service.CheckoutService
	// Ready 健康检查时探测下游（可为 nil）
	Ready func(*gin.Context) error
}

type Options struct {
	Mode           string
	RequestTimeout time.Duration
	// LoginPerIP 为 false 时不挂登录限速（测试用）
	LoginPerIP bool
}

func NewAPIEngine(l *zap.Logger, d Deps, o Options) *gin.Engine {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 15 * time.Second
	}
	r := server.NewRouter(server.Options{Name: "storefront", Mode: o.Mode})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(o.RequestTimeout),
	)

	// 健康检查 & 指标
	r.GET("/health", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes := handler.Routes{
		Public: r.Group(""),
		Admin:  r.Group("", mdw.AuthJWT(d.Auth)),
	}

	auth := handler.NewAuthHandler(d.Auth)
	if !o.LoginPerIP {
		auth.LoginRate = 0
	}
	var reg Registry
	reg.Register(
		auth,
		handler.NewItemHandler(d.Items),
		handler.NewUploadHandler(d.Uploads),
		handler.NewCheckoutHandler(d.Checkout),
	)
	reg.MountAll(routes)
	return r
}
