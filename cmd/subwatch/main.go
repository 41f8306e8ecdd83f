package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/config"
	dbRedis "github.com/subwatch/subwatch/internal/db/redis"
	"github.com/subwatch/subwatch/internal/fetch"
	logpkg "github.com/subwatch/subwatch/internal/logger"
	"github.com/subwatch/subwatch/internal/metrics"
	chatgrouprepo "github.com/subwatch/subwatch/internal/repository/chatgroup"
	settingsrepo "github.com/subwatch/subwatch/internal/repository/settings"
	subscriptionrepo "github.com/subwatch/subwatch/internal/repository/subscription"
	"github.com/subwatch/subwatch/internal/resolve"
	"github.com/subwatch/subwatch/internal/scheduler"
	"github.com/subwatch/subwatch/internal/transport/ops"
	"github.com/subwatch/subwatch/internal/transport/telegram"
	checkuc "github.com/subwatch/subwatch/internal/usecase/check"
	inspectuc "github.com/subwatch/subwatch/internal/usecase/inspect"
	rosteruc "github.com/subwatch/subwatch/internal/usecase/roster"
	"github.com/subwatch/subwatch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting subwatch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterCheckMetrics()

	// Repositories
	subRepo := subscriptionrepo.New(store, cfg.Storage.KeyPrefix)
	groupRepo := chatgrouprepo.New(store, cfg.Storage.KeyPrefix)
	settingsRepo := settingsrepo.New(store, cfg.Storage.KeyPrefix)

	// Resolution stack
	fetchClient := fetch.New(fetch.Config{
		UserAgent:    cfg.Check.UserAgent,
		Timeout:      cfg.CheckTimeout(),
		MaxRedirects: cfg.Check.MaxRedirects,
	}, logger)

	policy := resolve.LastWins
	if cfg.Check.ScanFirstWins {
		policy = resolve.FirstWins
	}
	resolver := resolve.New(fetchClient, resolve.Config{
		ScanPolicy: policy,
		TimeOffset: cfg.TimeOffset(),
	}, logger)
	nameResolver := resolve.NewNameResolver(fetchClient, logger)

	// Usecases
	rosterSvc := rosteruc.New(subRepo)
	checkSvc := checkuc.New(subRepo, resolver, logger)
	inspectSvc := inspectuc.New(resolver, nameResolver, logger)

	// Telegram bot
	bot, err := telegram.New(telegram.Config{
		Token:      cfg.Telegram.Token,
		AdminID:    cfg.Telegram.AdminID,
		MessageTTL: cfg.MessageTTL(),
	}, rosterSvc, checkSvc, inspectSvc, groupRepo, settingsRepo, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := bot.Run(runCtx); err != nil && runCtx.Err() == nil {
			logger.Fatal("Bot stopped unexpectedly", zap.Error(err))
		}
	}()

	// Daily scheduled check, broadcast to registered groups
	daily := scheduler.New(settingsRepo, func(jobCtx context.Context) {
		statuses, err := checkSvc.Run(jobCtx)
		if err != nil {
			logger.Error("scheduled check failed", zap.Error(err))
			return
		}

		ids, err := groupRepo.List(jobCtx)
		if err != nil {
			logger.Error("group list failed", zap.Error(err))
			return
		}
		bot.Broadcast(ids, checkuc.RenderHTML(statuses))
	}, cfg.Check.Hour, cfg.TimeOffset(), logger)

	go func() {
		if err := daily.Run(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("scheduler stopped", zap.Error(err))
		}
	}()

	// Ops HTTP server
	opsServer := ops.NewServer(store, logger)
	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      opsServer.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Stopped gracefully")
}
