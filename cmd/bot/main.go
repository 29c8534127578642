package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lacasita/internal/api"
	"lacasita/internal/backend"
	"lacasita/internal/bot"
	"lacasita/internal/config"
	"lacasita/internal/database"
	"lacasita/internal/domain"
	"lacasita/internal/events"
	"lacasita/internal/logging"
	"lacasita/internal/metrics"
	"lacasita/internal/repository"
	"lacasita/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := cfg.ValidateForBot(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return err
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, draftRepo := initDraftRepository(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	checks := map[string]api.Checker{}
	if db != nil {
		checks["database"] = db.PingContext
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return repository.Ping(ctx, redisClient) }
	}
	startMonitoring(ctx, cfg, checks, logger)

	eventBus := events.NewEventBus()
	eventBus.OnError(func(ev *events.Event, err error) {
		logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: handler failed")
	})

	var journal domain.Journal
	if db != nil {
		journal = db
		service.NewJournalRecorder(db, logging.Component(logger, "journal")).Subscribe(eventBus)
	}

	client := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout.Std()),
		backend.WithRateLimit(cfg.Backend.RateLimit.RPS, cfg.Backend.RateLimit.Burst),
		backend.WithLogger(logging.Component(logger, "backend")),
	)

	forms := service.NewFormService(draftRepo, client, eventBus, nil, logging.Component(logger, "forms"))

	return startBot(ctx, cfg, forms, journal, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logging.Component(baseLogger, "bot-main"), closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logger.Error().Err(err).Msg("Failed to create database directory")
			return err
		}
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create export directory")
		return err
	}
	return nil
}

// initDatabase opens the journal. An empty path disables it.
func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	if cfg.Database.Path == "" {
		logger.Warn().Msg("database.path is empty, journal disabled")
		return nil, nil
	}

	db, err := database.NewDB(cfg.Database.Path, logging.Component(logger, "database"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open journal database")
		return nil, err
	}
	return db, nil
}

func initDraftRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverDraftRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(cfg.Bot.StateTTL) * time.Second
	primaryRepo := repository.NewRedisDraftRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryDraftRepository(ttl)
	return redisClient, repository.NewFailoverDraftRepository(primaryRepo, fallbackRepo, logging.Component(logger, "drafts"))
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	forms *service.FormService,
	journal domain.Journal,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	telegramBot, err := bot.NewBot(tgService, cfg, forms, journal, logging.Component(logger, "bot"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create bot")
		return err
	}

	logger.Info().Str("backend", cfg.Backend.BaseURL).Msg("Bot started")
	telegramBot.Start(ctx)
	telegramBot.Stop()

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func startMonitoring(ctx context.Context, cfg *config.Config, checks map[string]api.Checker, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	srv := api.NewHTTPServer(cfg.Monitoring, checks, logging.Component(logger, "monitoring"))
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("monitoring server error")
		}
	}()
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
}
