package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/auth"
	"github.com/veiling/veiling-be/internal/config"
	"github.com/veiling/veiling-be/internal/server"
	"github.com/veiling/veiling-be/internal/service"
	"github.com/veiling/veiling-be/internal/storage/postgres"
	"github.com/veiling/veiling-be/pkg/logger"
)

func main() {
	envLoaded := godotenv.Load() == nil

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(logger.Environment(cfg.Env), cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)
	if !envLoaded {
		zl.Info("no .env file found; relying on existing environment")
	}

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	pool, err := postgres.Open(ctx, postgres.PoolOptions{
		DatabaseURL: cfg.DatabaseURL,
		MinConns:    cfg.DBMinConns,
		MaxConns:    cfg.DBMaxConns,
	}, zl)
	if err != nil {
		return err
	}
	defer pool.Close()

	identity := service.NewIdentity(postgres.NewUserStore(pool, zl), auth.NewBcryptHasher(cfg.BcryptCost), zl)
	products := service.NewProducts(postgres.NewProductStore(pool), identity, zl)

	srv := server.New(cfg, server.Deps{
		Users:    identity,
		Products: products,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL()),
		DB:       pool,
		Log:      zl,
	})

	errCh := make(chan error, 1)
	go func() {
		zl.Info("veiling backend listening", zap.String("addr", srv.Addr()), zap.String("env", cfg.Env))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zl.Warn("graceful shutdown error", zap.Error(err))
	}
	return nil
}
