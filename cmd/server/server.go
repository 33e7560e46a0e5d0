package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/konman95/mainst.ai/internal/config"
	"github.com/konman95/mainst.ai/internal/generator"
	"github.com/konman95/mainst.ai/internal/handlers"
	"github.com/konman95/mainst.ai/internal/notify"
	"github.com/konman95/mainst.ai/internal/services"
	"github.com/konman95/mainst.ai/internal/store"
	"github.com/konman95/mainst.ai/router"
	"github.com/konman95/mainst.ai/pkg/logger"

	"go.uber.org/zap"
)

// SetupServer wires storage, services, handlers and the router into a
// configured HTTP server. The returned cleanup closes the storage backend.
func SetupServer(cfg *config.Config) (*http.Server, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("configuration is required")
	}
	if cfg.Server.Port <= 0 {
		return nil, nil, errors.New("invalid server port")
	}

	st, cleanup, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	// A nil generator or delivery client disables that integration; the
	// services degrade to templates and in-app alerts.
	var gen services.Generator
	if hf := generator.NewHFClient(cfg.Generator.BaseURL, cfg.Generator.Model, cfg.Generator.Token, cfg.Generator.Timeout); hf != nil {
		gen = hf
	}
	email := notify.NewSendGridClient(cfg.Delivery.SendGridAPIKey, cfg.Delivery.SendGridFromEmail, cfg.Delivery.Timeout)
	sms := notify.NewTwilioClient(cfg.Delivery.TwilioAccountSID, cfg.Delivery.TwilioAuthToken, cfg.Delivery.TwilioFromNumber, cfg.Delivery.Timeout)
	messenger := notify.NewService(email, sms)

	cfgSvc := services.NewConfigService(st)
	contacts := services.NewContactService(st)
	stats := services.NewStatsService(st)
	audit := services.NewAuditService(st)
	composer := services.NewComposer(gen, cfg.Generator.Timeout)
	actions := services.NewActionService(st, contacts, stats, audit, cfgSvc, cfg.SavedMinutesPerAction)
	notifications := services.NewNotificationService(st, cfgSvc, messenger)
	policy := services.NewPolicyEngine(composer)
	cover := services.NewCoverService(st, cfgSvc, contacts, stats, audit, policy, actions, notifications)
	followups := services.NewFollowupService(st, cfgSvc, contacts, stats, audit, actions)
	chat := services.NewChatService(cfgSvc, contacts, stats, audit, composer)
	outcomes := services.NewOutcomeService(st, stats, audit)
	dashboard := services.NewDashboardService(stats)

	r := router.NewRouter(cfg, router.Handlers{
		Cover:         handlers.NewCoverHandler(cover, cfgSvc, notifications, audit),
		Actions:       handlers.NewActionHandler(actions, audit),
		Notifications: handlers.NewNotificationHandler(notifications, cfgSvc, audit),
		Config:        handlers.NewConfigHandler(cfgSvc, audit),
		Contacts:      handlers.NewContactHandler(contacts),
		Chat:          handlers.NewChatHandler(chat),
		Dashboard:     handlers.NewDashboardHandler(dashboard, outcomes),
		Health:        handlers.NewHealthHandler(cfg.Storage.Driver, cfg.Generator.Model, gen != nil, email != nil, sms != nil),
		Cron:          handlers.NewCronHandler(followups, cfg.Cron.Secret, cfg.Cron.Budget),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, cleanup, nil
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	case "sqlite", "":
		s, err := store.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := s.Close(); err != nil {
				logger.Error("Failed to close store", zap.Error(err))
			}
		}
		return s, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// StartServer starts the HTTP server and handles graceful shutdown
func StartServer(srv *http.Server) error {
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// StartServerWithContext starts the HTTP server with a context for shutdown control
func StartServerWithContext(ctx context.Context, srv *http.Server) error {
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
