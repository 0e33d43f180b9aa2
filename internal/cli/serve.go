package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/noah-isme/flashmind-analytics-api/internal/config"
	"github.com/noah-isme/flashmind-analytics-api/internal/handler"
	"github.com/noah-isme/flashmind-analytics-api/internal/middleware"
	"github.com/noah-isme/flashmind-analytics-api/internal/router"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analytics HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if port != "" {
				cfg.AppPort = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides FLASHMIND_APP_PORT)")
	return cmd
}

func newFiberApp(app *components) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:      app.cfg.AppName,
		ServerHeader: app.cfg.AppName,
	})

	middleware.Register(server, middleware.Config{Logger: &app.logger, AllowOrigins: app.cfg.CORSOrigins})
	router.Register(server, app.cfg, router.Dependencies{
		AnalyticsHandler: handler.NewAnalyticsHandler(app.dashboard, app.quizzes, app.validate, app.logger),
		JWTMiddleware:    middleware.JWTProtected(app.cfg.JWTSecret),
		HealthPingers:    app.pingers,
	})
	return server
}

func runServer(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg, nil)

	app, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	server := newFiberApp(app)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("quiz_source", cfg.QuizSourceDriver).Msg("starting analytics api")
		listenErr <- server.Listen(cfg.HTTPAddress())
	}()

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-shutdownCtx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
