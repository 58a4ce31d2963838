// Command tournament-manager runs the league tournament API.
//
// Usage:
//
//	tournament-manager serve
//	tournament-manager migrate
//	tournament-manager seed --demo
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/Dosada05/tournament-manager/config"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/handlers"
	"github.com/Dosada05/tournament-manager/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "tournament-manager",
		Short:         "League tournament management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(logger))
	root.AddCommand(migrateCmd(logger))
	root.AddCommand(seedCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("storage", cfg.StorageDriver))

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.StorageDriver == config.StorageDriverPostgres {
				if err := db.Migrate(ctx, a.db, logger); err != nil {
					return err
				}
			}
			if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
				if _, err := a.authService.RegisterAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
					return fmt.Errorf("failed to bootstrap admin: %w", err)
				}
				logger.Info("admin account ready", slog.String("email", cfg.AdminEmail))
			}

			return serve(cfg, a, logger)
		},
	}
}

func migrateCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StorageDriverPostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
			}
			conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
			if err != nil {
				return err
			}
			defer conn.Close()

			start := time.Now()
			if err := db.Migrate(cmd.Context(), conn, logger); err != nil {
				return err
			}
			logger.Info("migrations applied", slog.Duration("duration", time.Since(start).Round(time.Millisecond)))
			return nil
		},
	}
}

func serve(cfg *config.Config, a *app, logger *slog.Logger) error {
	// Инициализация WebSocket Hub
	go a.hub.Run()
	defer a.hub.Stop()
	logger.Info("WebSocket Hub started")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(a.authService)
	tournamentHandler := handlers.NewTournamentHandler(a.tournamentService, a.standingsService, a.scheduleService)
	teamHandler := handlers.NewTeamHandler(a.teamService)
	matchHandler := handlers.NewMatchHandler(a.matchService)
	notificationHandler := handlers.NewNotificationHandler(a.notificationService)
	webSocketHandler := handlers.NewWebSocketHandler(a.hub, a.tournamentService, cfg.CORSAllowedOrigins)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		routes.Options{
			JWTSecret:         []byte(cfg.JWTSecretKey),
			AllowedOrigins:    cfg.CORSAllowedOrigins,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
		},
		authHandler,
		tournamentHandler,
		teamHandler,
		matchHandler,
		notificationHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
