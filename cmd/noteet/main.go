package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/noteet/internal/config"
	"github.com/Skotchmaster/noteet/internal/httpserver"
	authmw "github.com/Skotchmaster/noteet/internal/middleware/auth"
	"github.com/Skotchmaster/noteet/internal/mykafka"
	"github.com/Skotchmaster/noteet/internal/repo"
	"github.com/Skotchmaster/noteet/internal/search"
	"github.com/Skotchmaster/noteet/internal/service"
	pkgdb "github.com/Skotchmaster/noteet/pkg/db"
	"github.com/Skotchmaster/noteet/pkg/logging"
	"github.com/Skotchmaster/noteet/pkg/tokens"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	gormRepo := repo.NewGormRepo(db)
	if err := gormRepo.Migrate(context.Background()); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	issuer, err := tokens.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	ready := map[string]httpserver.Checker{"db": gormRepo.Ping}

	var tokenStore service.TokenStore = gormRepo
	var redisTokens *repo.RedisTokens
	if cfg.TokenStore == config.TokenStoreRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisTokens, err = repo.NewRedisTokens(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		tokenStore = redisTokens
		ready["redis"] = redisTokens.Ping
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	if !producer.Enabled() {
		logger.Info("kafka disabled", "reason", "KAFKA_BROKERS not set")
	}

	authSvc := service.NewAuthService(gormRepo, tokenStore, issuer, producer)
	noteSvc := service.NewNoteService(gormRepo, producer)

	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err == nil {
			es := search.NewES(client, cfg.ESIndex)
			err = es.EnsureIndex(ctx)
			if err == nil {
				noteSvc.WithSearch(es, es)
			}
		}
		cancel()
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching in the database", "error", err)
		}
	}

	e := httpserver.New(&httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc, Notes: noteSvc},
		NotesHandler: &httpserver.NotesHTTP{Svc: noteSvc},
		Gate:         authmw.NewGate(issuer),
		Ready:        ready,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("noteet listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Warn("kafka close", "error", err)
	}
	if redisTokens != nil {
		_ = redisTokens.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("noteet stopped")
}
