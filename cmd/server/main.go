package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/config"
	"github.com/goliatone/alumni-api/internal/notify"
	"github.com/goliatone/alumni-api/internal/repository"
	"github.com/goliatone/alumni-api/internal/server"
	"github.com/goliatone/alumni-api/internal/storage"
	"github.com/goliatone/alumni-api/internal/visitors"
	"github.com/goliatone/alumni-api/migrations"
)

func main() {
	logger := auth.DefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer sqldb.Close()

	if err := runMigrations(context.Background(), sqldb); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	repo := repository.NewManager(db)
	repo.MustValidate()

	tokens := auth.NewTokenService(
		[]byte(cfg.AccessSecret),
		[]byte(cfg.RefreshSecret),
		cfg.AccessTTL,
		cfg.RefreshTTL,
		cfg.Issuer,
		auth.WithTokenLogger(logger),
	)

	provider := repository.NewUserProvider(repo.Users()).WithLogger(logger)
	auther := auth.NewAuthenticator(provider, tokens).WithLogger(logger)

	srv := server.New(server.Deps{
		Config:        cfg,
		Repo:          repo,
		Authenticator: auther,
		Notifier:      buildNotifier(cfg, logger),
		Media:         buildMediaStore(cfg, logger),
		Visitors:      buildVisitorCounter(cfg),
		Logger:        logger,
	})

	go func() {
		if err := srv.Listen(); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func buildNotifier(cfg *config.Config, logger auth.Logger) notify.Notifier {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, mail delivery disabled")
		return notify.NewLogNotifier(logger)
	}

	return notify.NewSMTPNotifier(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.MailFrom,
		notify.WithSMTPLogger(logger),
	)
}

func buildMediaStore(cfg *config.Config, logger auth.Logger) storage.MediaStore {
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3Key,
			SecretKey: cfg.S3Secret,
		})
		if err == nil {
			return store
		}
		logger.Error("S3 store unavailable, falling back to disk", "error", err)
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		logger.Error("failed to prepare upload directory", "error", err)
		os.Exit(1)
	}

	return store
}

func buildVisitorCounter(cfg *config.Config) visitors.Counter {
	if cfg.RedisAddr == "" {
		return visitors.NewMemoryCounter()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return visitors.NewRedisCounter(client)
}
