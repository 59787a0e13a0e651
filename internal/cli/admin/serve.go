package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/docgenius-ai/docgenius/internal/api/handlers"
	"github.com/docgenius-ai/docgenius/internal/config"
	"github.com/docgenius-ai/docgenius/internal/database"
	"github.com/docgenius-ai/docgenius/internal/jobs"
	"github.com/docgenius-ai/docgenius/internal/mail"
	"github.com/docgenius-ai/docgenius/internal/openai"
	"github.com/docgenius-ai/docgenius/internal/repository"
	"github.com/docgenius-ai/docgenius/internal/retrieval"
	"github.com/docgenius-ai/docgenius/internal/server"
	"github.com/docgenius-ai/docgenius/internal/service"
	"github.com/docgenius-ai/docgenius/internal/storage"
	"github.com/docgenius-ai/docgenius/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the DocGenius API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	userRepo := repository.NewUserRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	sentenceRepo := repository.NewSentenceRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	summaryJobRepo := repository.NewSummaryJobRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	if !cfg.HasOpenAI() {
		return fmt.Errorf("DOCGENIUS_OPENAI_API_KEY is required: the answer engine needs an embedding provider")
	}
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)

	engine := retrieval.NewEngine(openaiClient, retrieval.Config{
		TopK:          3,
		ContextWindow: retrieval.DefaultContextWindow,
		EmbedTimeout:  cfg.EmbedTimeout,
	})

	var docStore service.DocumentStore
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		docStore = s3Client
	}

	var mailer service.Mailer
	if cfg.HasMail() {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:      cfg.MailHost,
			Port:      cfg.MailPort,
			Username:  cfg.MailUsername,
			Password:  cfg.MailPassword,
			VerifyURL: cfg.VerifyURL,
		})
	} else {
		log.Println("mail not configured: verification emails disabled")
	}

	authSvc := service.NewAuthService(userRepo, chatRepo, messageRepo, mailer, service.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
	})
	chatSvc := service.NewChatService(chatRepo, sentenceRepo, txRunner, engine, docStore)
	messageSvc := service.NewMessageService(chatRepo, sentenceRepo, messageRepo, engine)
	summarySvc := service.NewSummaryService(chatRepo, sentenceRepo, openaiClient)

	summaryProcessor := jobs.NewSummaryWorker(summaryJobRepo, summarySvc)
	summaryWorker := jobs.NewWorker(summaryProcessor, 10*time.Second)
	go summaryWorker.Start(ctx)
	log.Println("summary worker started")

	router := server.NewRouter(server.RouterConfig{
		TokenParser:    authSvc,
		AuthHandler:    handlers.NewAuthHandler(authSvc),
		ChatHandler:    handlers.NewChatHandler(chatSvc),
		MessageHandler: handlers.NewMessageHandler(messageSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	summaryWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
