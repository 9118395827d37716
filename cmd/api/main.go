package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jwt-auth/internal/accounts"
	"jwt-auth/internal/audit"
	"jwt-auth/internal/auth"
	"jwt-auth/internal/config"
	"jwt-auth/internal/httpapi"
	"jwt-auth/internal/identity"
	"jwt-auth/internal/migrations"
	"jwt-auth/internal/revocation"
	"jwt-auth/pkg/logger"
	"jwt-auth/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// A malformed signing secret is fatal here, never per request.
	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	var (
		store     identity.Store
		auditRepo audit.Repository
	)
	policy, hasher := identity.DefaultPasswordPolicy(), identity.DefaultHasher()

	switch cfg.DB.Driver {
	case "memory":
		log.Warn("using in-memory identity store; data is lost on restart")
		store = identity.NewMemoryStore(policy, hasher)
		auditRepo = audit.NewMemoryRepo()
	default:
		db, err := openDatabase(rootCtx, cfg)
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		store = identity.NewPostgresStore(db, policy, hasher)
		auditRepo = audit.NewPostgresRepo(db)
	}

	svcOpts := []accounts.Option{
		accounts.WithAudit(audit.NewService(auditRepo)),
		accounts.WithBootstrapOwner(cfg.Auth.BootstrapOwner),
	}
	deps := httpapi.Deps{
		Tokens:          tokens,
		LoginRateLimit:  cfg.Login.RateLimit,
		LoginRateWindow: cfg.Login.RateWindow,
	}

	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		denylist := revocation.NewRedisDenylist(rdb)
		svcOpts = append(svcOpts, accounts.WithRevoker(denylist))
		deps.Revocations = denylist
		deps.Redis = rdb
	} else {
		log.Warn("redis not configured; logout and login throttling are disabled")
	}

	deps.Accounts = accounts.NewService(store, tokens, svcOpts...)

	router, err := newRouter(log, cfg.App.TrustedProxies, deps)
	if err != nil {
		log.Error("router init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "db_driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
