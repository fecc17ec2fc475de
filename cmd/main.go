package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"swmra-client/internal/config"
	"swmra-client/internal/domain/request"
	"swmra-client/internal/gateway"
	"swmra-client/internal/logger"
	"swmra-client/internal/session"
	authstore "swmra-client/internal/store/auth"
	notificationstore "swmra-client/internal/store/notification"
	requeststore "swmra-client/internal/store/request"
	rewardstore "swmra-client/internal/store/reward"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting SWMRA client",
		zap.String("environment", env),
		zap.String("api_base", cfg.Server.BaseURL),
	)

	wsBase, err := cfg.Server.WSBase()
	if err != nil {
		logger.Fatal("Invalid API base URL", zap.Error(err))
	}

	sessions := session.NewStore(afero.NewOsFs(), cfg.Session.TokenFile)
	gw := gateway.NewClient(cfg.Server.BaseURL, cfg.HTTP.Timeout())

	auth := authstore.NewStore(gw, sessions)
	notifications := notificationstore.NewStore(gw, wsBase, cfg.Live.HandshakeTimeout(), auth.Token)
	requests := requeststore.NewStore(gw)
	rewards := rewardstore.NewStore(gw)

	// Any 401 anywhere forces logout and tears the live channel down.
	gw.SetTokenSource(auth.Token)
	gw.SetUnauthorizedHandler(func() {
		auth.HandleUnauthorized()
		notifications.Disconnect()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	auth.Bootstrap(ctx)
	cancel()

	if token := auth.Token(); token != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := notifications.Bootstrap(ctx); err != nil {
			logger.Warn("Failed to fetch notification backlog", zap.Error(err))
		}
		if err := notifications.Connect(ctx, token); err != nil {
			logger.Warn("Failed to open notification channel", zap.Error(err))
		}
		cancel()
	}

	state := auth.Snapshot()
	if state.User != nil {
		logger.Info("Session restored",
			zap.String("email", state.User.Email),
			zap.String("role", string(state.User.Role)),
		)

		// Warm the dashboard caches.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := requests.Load(ctx, request.Filters{}); err != nil {
			logger.Warn("Failed to load requests", zap.Error(err))
		} else if page := requests.Snapshot().Page; page != nil {
			logger.Info("Requests loaded", zap.Int("total", page.Total))
		}
		if summary, err := rewards.Refresh(ctx); err != nil {
			logger.Warn("Failed to load reward summary", zap.Error(err))
		} else {
			logger.Info("Reward summary loaded", zap.Int("total_points", summary.TotalPoints))
		}
		cancel()
	} else {
		logger.Info("No active session")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down ...")

	notifications.Disconnect()
}
