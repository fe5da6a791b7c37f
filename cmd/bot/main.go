package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitbot/internal/ai"
	"habitbot/internal/config"
	"habitbot/internal/dialogue"
	"habitbot/internal/export"
	"habitbot/internal/handler"
	"habitbot/internal/mail"
	"habitbot/internal/middleware"
	"habitbot/internal/repository/postgres"
	"habitbot/internal/scheduler"
	"habitbot/internal/service"
	"habitbot/internal/state"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting habit bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("timezone", cfg.Schedule.Location.String()),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	recordRepo := postgres.NewRecordRepo(db)
	expenseRepo := postgres.NewExpenseRepo(db)

	// Initialize services
	loc := cfg.Schedule.Location
	userService := service.NewUserService(userRepo)
	recordService := service.NewRecordService(recordRepo, loc)
	ledgerService := service.NewLedgerService(expenseRepo, loc)
	categoryService := service.NewCategoryService(expenseRepo)
	summaryService := service.NewSummaryService(userRepo, recordService, expenseRepo, logger)

	// Initialize collaborators
	assistant := ai.NewAssistant(ai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	}, logger)
	if !assistant.Enabled() {
		logger.Warn("OPENAI_API_KEY not set, using fallback texts")
	}

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		To:       cfg.SMTP.To,
	}, logger)
	if !mailer.Configured() {
		logger.Warn("SMTP not configured, summary emails are disabled")
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	sched, err := scheduler.New(scheduler.Config{
		Location:    loc,
		MorningTime: cfg.Schedule.MorningTime,
		EveningTime: cfg.Schedule.EveningTime,
		SummaryTime: cfg.Schedule.SummaryTime,
	}, scheduler.Deps{
		Users:     userService,
		Messenger: handler.NewMessenger(bot),
		Composer:  assistant,
		Goals:     recordService,
		Summaries: summaryService,
		Mailer:    mailer,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	deps := dialogue.Deps{
		Location:   loc,
		States:     state.NewStore(),
		Records:    recordService,
		Summaries:  summaryService,
		Ledger:     ledgerService,
		Categories: categoryService,
		Generator:  assistant,
		Trigger:    sched,
	}
	if s3cfg := exportConfig(cfg.S3); s3cfg.Enabled() {
		publisher, err := export.NewS3Publisher(ctx, s3cfg, logger)
		if err != nil {
			logger.Fatal("Failed to create export publisher", zap.Error(err))
		}
		deps.Exporter = publisher
		logger.Info("Expense exports are uploaded to S3", zap.String("bucket", s3cfg.Bucket))
	}

	// Initialize handler
	h := handler.NewHandler(bot, dialogue.NewDispatcher(deps, logger), userService, logger)
	h.RegisterHandlers(middleware.EnsureUser(userService, logger))

	logger.Info("Handlers registered")

	// Start scheduler in background
	go sched.Start(ctx)

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

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

func exportConfig(c config.S3Config) export.Config {
	return export.Config{
		Bucket:    c.Bucket,
		Region:    c.Region,
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
	}
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

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Migrations applied successfully")
	}

	return nil
}
