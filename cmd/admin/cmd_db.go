package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/core/config"
	"storefront/internal/service"
	"storefront/pkg/utils"
)

// boot 读取配置并打开数据源
func boot(ctx context.Context, migrate bool) (*config.Config, *zap.Logger, *app.Stores, func(), error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	log, cleanup := app.NewLogger(cfg)
	stores, err := app.OpenStores(ctx, cfg, log, migrate)
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}
	return cfg, log, stores, func() { stores.Close(); cleanup() }, nil
}

// storefront-admin seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin account if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		cfg, log, stores, done, err := boot(ctx, true)
		if err != nil {
			return err
		}
		defer done()
		if cfg.DB.Driver == "memory" {
			return errors.New("seed needs a persistent db.driver (mongo, postgres or mysql)")
		}

		svc := service.NewAuthService(stores.Admins, app.NewJWTer(cfg, stores), log)
		created, err := svc.Seed(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin user %q created\n", cfg.Seed.AdminUsername)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Admin user already exists")
		}
		return nil
	},
}

// storefront-admin migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create datastore indexes (mongo) or tables (postgres/mysql)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		cfg, _, _, done, err := boot(ctx, true)
		if err != nil {
			return err
		}
		defer done()
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s store\n", cfg.DB.Driver)
		return nil
	},
}

// storefront-admin hash-password [password]
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pw string
		if len(args) == 1 {
			pw = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			pw = strings.TrimRight(line, "\r\n")
		}
		if pw == "" {
			return errors.New("password must not be empty")
		}
		hash, err := utils.HashPassword(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
