package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"storefront/internal/core/auth"
	"storefront/internal/core/cache"
	"storefront/internal/core/config"
	"storefront/internal/core/database"
	"storefront/internal/core/logger"
	"storefront/internal/core/storage"
	"storefront/internal/domain"
	"storefront/internal/repo"
	"storefront/internal/repo/memory"
	"storefront/internal/service"
)

// Stores 进程级数据源：启动时打开、退出时 Close
type Stores struct {
	Items  domain.ItemRepository
	Admins domain.AdminRepository
	Cache  *cache.Cache // 未配置 redis 时为 nil

	ping    []func(context.Context) error
	closers []func()
}

// Ping 探测所有下游
func (s *Stores) Ping(ctx context.Context) error {
	for _, p := range s.ping {
		if err := p(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close 逆序释放
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStores 按 db.driver 选择数据源；migrate 为 true 时建索引/建表
func OpenStores(ctx context.Context, cfg *config.Config, l *zap.Logger, migrate bool) (*Stores, error) {
	s := &Stores{}
	switch cfg.DB.Driver {
	case "memory":
		s.Items, s.Admins = memory.NewItemRepo(), memory.NewAdminRepo()
		l.Warn("using in-memory store; data is lost on exit")

	case "mongo":
		client, db, err := database.NewMongo(ctx, database.MongoOpts{
			URI:         cfg.DB.URI,
			Database:    cfg.DB.Name,
			MaxPoolSize: uint64(max(cfg.DB.MaxOpenConns, 0)),
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(cctx); err != nil {
				l.Warn("mongo disconnect", zap.Error(err))
			}
		})
		s.ping = append(s.ping, func(ctx context.Context) error { return client.Ping(ctx, nil) })
		if migrate {
			if err := repo.MigrateMongo(ctx, db); err != nil {
				s.Close()
				return nil, fmt.Errorf("mongo indexes: %w", err)
			}
		}
		s.Items, s.Admins = repo.NewItemRepoMongo(db), repo.NewAdminRepoMongo(db)

	default:
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Writer:             logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel),
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = database.CloseGorm(db) })
		s.ping = append(s.ping, func(ctx context.Context) error { return pingGorm(ctx, db) })
		if migrate {
			if err := repo.MigrateGorm(db); err != nil {
				s.Close()
				return nil, fmt.Errorf("automigrate: %w", err)
			}
		}
		s.Items, s.Admins = repo.NewItemRepoGorm(db), repo.NewAdminRepoGorm(db)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			// 缓存不是硬依赖：连不上只告警
			l.Warn("redis unavailable; cache and token revocation disabled", zap.Error(err))
			_ = c.Close()
		} else {
			s.Cache = c
			s.closers = append(s.closers, func() { _ = c.Close() })
			ttl := time.Duration(cfg.Redis.ItemTTLSec) * time.Second
			if ttl <= 0 {
				ttl = time.Minute
			}
			s.Items = repo.NewCachedItemRepo(s.Items, c, ttl, l.Named("cache"))
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}
	return s, nil
}

func pingGorm(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// NewJWTer 有 redis 时挂上吊销名单
func NewJWTer(cfg *config.Config, s *Stores) *auth.JWTer {
	j := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}
	if s.Cache != nil {
		j.Denylist = cache.NewDenylist(s.Cache)
	}
	return j
}

// NewObjectStore 未配置时返回 nil（上传接口返回 503）
func NewObjectStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (service.ObjectStore, error) {
	if !cfg.Storage.Configured() {
		l.Warn("object storage not configured; uploads disabled")
		return nil, nil
	}
	r2, err := storage.NewR2(ctx, storage.Opts{
		AccountID:       cfg.Storage.AccountID,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		PublicURL:       cfg.Storage.PublicURL,
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
	})
	if err != nil {
		return nil, err
	}
	return r2, nil
}

// NewLogger 按配置选择是否写文件
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate(cfg.Log.File))
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}
