package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/config"
	"github.com/gradeflow/gradeflow-api/internal/database"
	"github.com/gradeflow/gradeflow-api/internal/handler"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/repository"
	"github.com/gradeflow/gradeflow-api/internal/router"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/pkg/ai"
	"github.com/gradeflow/gradeflow-api/pkg/blob"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.Professor{}, &models.Submission{}, &models.ProfessorFile{}, &models.Evaluation{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := database.Seed(db); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	blobStore, err := newBlobStore(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create blob store: %v", err)
	}

	invoker, err := newInvoker(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create model invoker: %v", err)
	}

	cache := newCache(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	professorFileRepo := repository.NewProfessorFileRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	authService := service.NewAuthService(studentRepo, professorRepo, validate, cfg.JWTSecret, logger)
	submissionService := service.NewSubmissionService(submissionRepo, studentRepo, blobStore, cfg.MaxUploadMB, logger)
	professorFileService := service.NewProfessorFileService(professorFileRepo, professorRepo, blobStore, validate, logger)
	evaluationService := service.NewEvaluationService(submissionRepo, professorFileRepo, evaluationRepo, blobStore, invoker, validate, logger)
	dashboardService := service.NewDashboardService(submissionRepo, cache, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app)
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:          handler.NewAuthHandler(authService, logger),
		SubmissionHandler:    handler.NewSubmissionHandler(submissionService, logger),
		ProfessorFileHandler: handler.NewProfessorFileHandler(professorFileService, logger),
		EvaluationHandler:    handler.NewEvaluationHandler(evaluationService, logger),
		DashboardHandler:     handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func connectDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return database.ConnectPostgres(cfg.DatabaseURL)
	}

	return database.ConnectSQLite(cfg.SQLitePath)
}

func newBlobStore(cfg config.Config, logger zerolog.Logger) (blob.Store, error) {
	if cfg.StorageBackend == "minio" {
		return blob.NewMinioStore(context.Background(), blob.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, logger)
	}

	return blob.NewDiskStore(cfg.StorageDir, logger)
}

func newInvoker(cfg config.Config, logger zerolog.Logger) (ai.Invoker, error) {
	if cfg.AIProvider == "openai" {
		return ai.NewOpenAIInvoker(ai.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.OpenAIModel,
			MaxTokens: cfg.AIMaxTokens,
			Timeout:   cfg.AIInvokeTimeout,
			Logger:    logger,
		})
	}

	return ai.NewBedrockInvoker(context.Background(), ai.BedrockConfig{
		Region:    cfg.BedrockRegion,
		ModelID:   cfg.BedrockModelID,
		MaxTokens: cfg.AIMaxTokens,
		Timeout:   cfg.AIInvokeTimeout,
		Logger:    logger,
	})
}

func newCache(cfg config.Config, logger zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	client, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard cache disabled")
		return nil
	}

	return client
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
