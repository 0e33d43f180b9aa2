package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flashmind-analytics-api/internal/analytics"
	"github.com/noah-isme/flashmind-analytics-api/internal/config"
	"github.com/noah-isme/flashmind-analytics-api/internal/database"
	"github.com/noah-isme/flashmind-analytics-api/internal/handler"
	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
	"github.com/noah-isme/flashmind-analytics-api/internal/repository"
	"github.com/noah-isme/flashmind-analytics-api/internal/service"
)

// components is the wired application shared by every command.
type components struct {
	cfg       config.Config
	logger    zerolog.Logger
	validate  *validator.Validate
	dashboard service.DashboardService
	quizzes   service.QuizAnalyticsService
	pingers   map[string]handler.Pinger
	closers   []func()
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()
}

func buildComponents(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*components, error) {
	app := &components{
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		pingers:  map[string]handler.Pinger{},
	}

	source, err := app.quizSource(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		app.pingers["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		source = quizsource.NewCachedSource(source, redisClient, cfg.QuizCacheTTL, logger)
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, natsConn.Close)
		app.pingers["nats"] = func(context.Context) error {
			if !natsConn.IsConnected() {
				return fmt.Errorf("nats status %s", natsConn.Status())
			}
			return nil
		}
	}

	aggregator, err := newAggregator(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var publisher service.DashboardEventPublisher
	if broadcast := service.NewBroadcastPublisher(natsConn, redisClient, cfg.NATSSubject); broadcast != nil {
		publisher = broadcast
	}

	loader := service.NewParticipationLoader(source, cfg.FetchConcurrency, logger)
	app.dashboard = service.NewDashboardService(source, loader, aggregator, publisher, cfg.LeaderboardSize, logger)
	app.quizzes = service.NewQuizAnalyticsService(source, aggregator, logger)
	return app, nil
}

func (c *components) quizSource(ctx context.Context) (quizsource.Source, error) {
	switch c.cfg.QuizSourceDriver {
	case config.QuizSourceDatabase:
		db, err := database.ConnectPostgres(ctx, c.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
			c.pingers["postgres"] = sqlDB.PingContext
		}
		return quizsource.NewDatabaseSource(repository.NewQuizRepository(db), repository.NewParticipationRepository(db)), nil
	default:
		source, err := quizsource.NewHTTPSource(quizsource.HTTPConfig{
			BaseURL: c.cfg.QuizAPIURL,
			Timeout: c.cfg.QuizAPITimeout,
		}, c.logger)
		if err != nil {
			return nil, err
		}
		return source, nil
	}
}

func newAggregator(cfg config.Config) (*analytics.Aggregator, error) {
	policy, err := analytics.ParseRollupPolicy(cfg.RollupPolicy)
	if err != nil {
		return nil, err
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	formatter := analytics.NewActivityFormatter(time.Now, location)
	return analytics.NewAggregator(analytics.NewResolver(), formatter, policy), nil
}
