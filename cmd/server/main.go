package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/ogurasousui/shift-scheduler/internal/adapters/directory"
	"github.com/ogurasousui/shift-scheduler/internal/adapters/http/handler"
	"github.com/ogurasousui/shift-scheduler/internal/adapters/repository/postgres"
	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	"github.com/ogurasousui/shift-scheduler/internal/core/health"
	"github.com/ogurasousui/shift-scheduler/internal/core/shift"
	"github.com/ogurasousui/shift-scheduler/internal/platform/config"
	pg "github.com/ogurasousui/shift-scheduler/internal/platform/db/postgres"
	"github.com/ogurasousui/shift-scheduler/internal/platform/logger"
	"github.com/ogurasousui/shift-scheduler/internal/platform/server"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env は任意。存在しない場合は環境変数と設定ファイルのみを使う
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log, os.Stdout)
	slog.SetDefault(appLogger)

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	var dir employee.Directory = directory.NewClient(cfg.Directory, nil)
	if cfg.Cache.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Warn("redis unreachable, directory lookups will bypass the cache", slog.Any("error", err))
		}
		dir = directory.NewCachedDirectory(dir, rdb, cfg.Cache.TTL, appLogger)
	}

	shiftRepo := postgres.NewShiftRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	txManager := pg.NewTransactionManager(dbPool, pg.WithIsoLevel(pgx.ReadCommitted))
	shiftSvc := shift.NewService(shiftRepo, employeeRepo, dir, txManager)
	healthSvc := health.NewService(dbPool)

	router, err := handler.NewRouter(handler.Dependencies{
		Shifts:      shiftSvc,
		Health:      healthSvc,
		Logger:      appLogger,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		return err
	}

	return server.New(cfg.Server, router, healthSvc, appLogger).Run(ctx)
}
