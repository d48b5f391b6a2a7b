package main

import (
	"context"
	"crypto/rsa"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authgate/internal/audit"
	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/httpapi"
	"authgate/internal/reporting"
	"authgate/internal/session"
	"authgate/pkg/logger"
	"authgate/pkg/utils"

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

	pub, err := loadPublicKey(cfg.Auth)
	if err != nil {
		log.Error("public key load failed", "err", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		PublicKey:         pub,
		AllowedAlgorithms: cfg.Auth.AllowedAlgorithms,
		ClockSkew:         cfg.Auth.ClockSkew,
		Issuer:            cfg.Auth.Issuer,
		Audience:          cfg.Auth.Audience,
	})
	if err != nil {
		log.Error("verifier init failed", "err", err)
		os.Exit(1)
	}

	var sessions session.Store
	if cfg.HasRedis() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessions, err = session.NewRedisStore(rdb)
		if err != nil {
			log.Error("session store init failed", "err", err)
			os.Exit(1)
		}
	} else {
		log.Warn("session revocation running in-memory; revocations do not survive restarts")
		sessions = session.NewMemoryStore()
	}

	var auditRepo audit.Repository
	if cfg.HasPostgres() {
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		auditRepo = audit.NewPostgresRepo(db)
	} else {
		log.Warn("audit trail running in-memory; events do not survive restarts")
		auditRepo = audit.NewMemoryRepo()
	}
	auditSvc := audit.NewService(auditRepo)
	reportingSvc := reporting.NewService(auditRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	authMW := auth.RequireAccessToken(auth.MiddlewareConfig{
		Verifier: verifier,
		Sessions: sessions,
		Recorder: auditSvc,
	})

	registerRoutes(r, authMW, httpapi.Handlers{
		Verifier:      verifier,
		Sessions:      sessions,
		Reporting:     reportingSvc,
		RevocationTTL: cfg.Auth.RevocationTTL,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
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

func loadPublicKey(cfg config.AuthConfig) (*rsa.PublicKey, error) {
	if cfg.PublicKeyFile != "" {
		return auth.LoadPublicKeyFile(cfg.PublicKeyFile)
	}
	return auth.LoadPublicKey([]byte(cfg.PublicKeyPEM))
}
