package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursebot/internal/config"
	"coursebot/internal/conversation"
	"coursebot/internal/handler"
	"coursebot/internal/messenger"
	"coursebot/internal/repository/postgres"
	"coursebot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration before the logger so LOG_LEVEL applies
	cfg, cfgErr := config.Load()

	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("Failed to load config", zap.Error(cfgErr))
	}

	logger.Info("Starting course order bot",
		zap.Int("subjects", len(cfg.Catalog.Subjects)),
		zap.Int("packages", len(cfg.Catalog.Packages)),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := runMigrations(db, cfg.MigrationsURL, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	selectionRepo := postgres.NewSelectionRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("Bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	msg := messenger.NewTelegram(bot)

	// Initialize services
	userService := service.NewUserService(userRepo, cfg.ActiveWindow, logger)
	selectionService := service.NewSelectionService(selectionRepo, cfg.Catalog, logger)
	orderService := service.NewOrderService(orderRepo, selectionRepo, userService, cfg.Catalog, msg, service.OrderOptions{
		AdminID:        cfg.AdminID,
		ManagerContact: cfg.ManagerContact,
		NotifyTimeout:  cfg.RequestTimeout,
	}, logger)
	adminService := service.NewAdminService(cfg.AdminID, userService, orderService, msg, cfg.BroadcastConcurrency, logger)
	statsService := service.NewStatsService(userRepo, orderRepo, cfg.ActiveWindow, logger)

	router := conversation.NewRouter(
		userService,
		selectionService,
		orderService,
		adminService,
		statsService,
		cfg.Catalog,
		msg,
		conversation.Options{ManagerContact: cfg.ManagerContact},
		logger,
	)

	h := handler.NewHandler(bot, router, cfg.RequestTimeout, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown: stop polling, then let pending notifications finish.
	// Handlers still running after Stop can no longer queue notifications.
	bot.Stop()
	orderService.Shutdown()

	logger.Info("Bot stopped gracefully")
}

// newLogger builds a production logger at the given level
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = atomicLevel
	return zapCfg.Build()
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies pending migrations from sourceURL
func runMigrations(db *sql.DB, sourceURL string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
