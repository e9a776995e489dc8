package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/delordemm1/go-accounts-api/internal/cache"
	"github.com/delordemm1/go-accounts-api/internal/config"
	"github.com/delordemm1/go-accounts-api/internal/database"
	"github.com/delordemm1/go-accounts-api/internal/modules/user"
	"github.com/delordemm1/go-accounts-api/internal/notification"
	"github.com/delordemm1/go-accounts-api/internal/notification/templates"
	"github.com/delordemm1/go-accounts-api/internal/server"
	"github.com/delordemm1/go-accounts-api/internal/session"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		if cfg == nil {
			logger.Error("failed to load configuration")
			os.Exit(1)
		}
		logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("successfully connected to postgres database")

		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("successfully connected to redis")

		// --- Notifications ---
		renderer := templates.NewEngine(templates.Config{}, logger)
		emailSender := notification.NewSMTPEmailSender(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
		smsSender := notification.NewDummySMSSender(logger)
		notifier := notification.NewService(logger,
			notification.Config{EmailEnabled: cfg.Notification.EmailEnabled},
			renderer, emailSender, smsSender)

		// --- Sessions ---
		sessions := session.NewPostgresProvider(dbPool, session.Config{})

		// --- Module Initialization (Bottom-Up) ---
		userRepo := user.NewRepository(dbPool)
		userService := user.NewService(user.ServiceConfig{
			Repo:     userRepo,
			Logger:   logger,
			Config:   cfg,
			Notifier: notifier,
			Sessions: sessions,
		})

		router := server.New(cfg, logger, redisClient, userService, sessions)
		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", options.Port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", options.Port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
