package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storefront/internal/app"
	"storefront/internal/core/config"
	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/service"
	"storefront/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据源（失败直接 Fatal）
	stores, err := app.OpenStores(ctx, cfg, log, cfg.DB.AutoMigrate)
	if err != nil {
		log.Fatal("open stores", zap.Error(err))
	}
	defer stores.Close()

	objects, err := app.NewObjectStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("object storage", zap.Error(err))
	}

	// 依赖
	jwter := app.NewJWTer(cfg, stores)
	authSvc := service.NewAuthService(stores.Admins, jwter, log.Named("auth"))
	if cfg.Seed.AdminPassword != "" {
		if _, err := authSvc.Seed(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
			log.Warn("seed admin failed", zap.Error(err))
		}
	}

	r := router.NewAPIEngine(log, router.Deps{
		Auth:     authSvc,
		Items:    service.NewItemService(stores.Items, log.Named("items")),
		Uploads:  service.NewUploadService(objects, log.Named("upload")),
		Checkout: service.NewCheckoutService(stores.Items, cfg.Checkout.MessengerPage, cfg.Checkout.Currency),
		Ready:    func(c *gin.Context) error { return stores.Ping(c.Request.Context()) },
	}, router.Options{
		Mode:       server.ModeFor(cfg.App.Env),
		LoginPerIP: true,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		logger.ToStdLogger(log.Named("http"), zapcore.ErrorLevel),
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	log.Info("storefront api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", "http://"+server.Addr(host4human, cfg.App.HTTP.Port)),
		zap.Bool("uploads", objects != nil),
		zap.Bool("cache", stores.Cache != nil),
	)

	// 阻塞直到收到信号，然后优雅关闭
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("storefront api stopped with error", zap.Error(err))
	}
}
