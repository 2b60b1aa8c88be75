package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/interview-segmenter/pkg/validator"

	"github.com/johnquangdev/interview-segmenter/internal/adapter/handler"
	"github.com/johnquangdev/interview-segmenter/internal/adapter/repository"
	"github.com/johnquangdev/interview-segmenter/internal/domain/repositories"
	"github.com/johnquangdev/interview-segmenter/internal/infrastructure/cache"
	"github.com/johnquangdev/interview-segmenter/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/interview-segmenter/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/interview-segmenter/internal/infrastructure/storage"
	"github.com/johnquangdev/interview-segmenter/internal/usecase/export"
	"github.com/johnquangdev/interview-segmenter/internal/usecase/segmentation"
	"github.com/johnquangdev/interview-segmenter/pkg/ai"
	"github.com/johnquangdev/interview-segmenter/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("20M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID, httpmw.APIKeyHeader},
	}))

	logger.Info("🔧 Initializing dependencies...")
	components := map[string]string{}

	// Text generator, optionally behind a reply cache
	genOpts := ai.GenerationOptions{
		Temperature: cfg.Segmentation.Temperature,
		MaxTokens:   cfg.Segmentation.MaxResponseTokens,
	}
	generator, err := ai.NewGenerator(&cfg.LLM, genOpts)
	if err != nil {
		logger.Fatal("Failed to create text generator", zap.Error(err))
	}
	logger.Info("🤖 Text generator ready", zap.String("generator", generator.Name()))

	replyStore, closeStore, err := newReplyStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize reply cache", zap.Error(err))
	}
	defer closeStore()
	components["cache"] = cfg.Cache.Backend
	if replyStore != nil {
		generator = ai.NewCachedGenerator(generator, replyStore, cfg.Cache.TTL, logger).
			WithReplyCheck(func(reply string) error {
				_, err := segmentation.ParseAnalysis(reply)
				return err
			})
	}

	// Run history
	var runs repositories.SegmentationRunRepository
	components["database"] = "disabled"
	if cfg.Database.Enabled {
		db := mustOpenDatabase(cfg, logger)
		defer database.CloseDB(db)
		runs = repository.NewSegmentationRunRepository(db)
		components["database"] = "enabled"
	}

	// Object storage for cut lists and export plans
	var objects handler.ObjectStore
	components["storage"] = "disabled"
	if cfg.Storage.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to object storage", zap.Error(err))
		}
		objects = minioClient
		components["storage"] = "enabled"
		logger.Info("📦 Object storage ready", zap.String("bucket", cfg.Storage.BucketName))
	}

	segmenter := segmentation.NewService(generator, cfg.Segmentation, cfg.Server.RunTimeout, logger)
	planner := export.NewPlanner(export.DefaultSettings(), logger)

	// A missing model is not fatal: runs fall back to uniform segments until it appears
	checkCtx, cancelCheck := context.WithTimeout(context.Background(), cfg.LLM.Timeout)
	if err := segmenter.CheckModel(checkCtx); err != nil {
		logger.Warn("⚠️  Model not available yet", zap.Error(err))
	}
	cancelCheck()

	var storageHandler *handler.Storage
	if objects != nil {
		storageHandler = handler.NewStorage(objects, logger)
	}
	if len(cfg.Server.APIKeys) == 0 {
		logger.Warn("⚠️  API_KEYS is empty, /v1 routes are open")
	}

	router := handler.NewRouter(cfg,
		handler.NewSegment(segmenter, runs, objects, logger),
		handler.NewExport(planner, objects, logger),
		storageHandler,
		httpmw.EchoAPIKey(cfg.Server.APIKeys),
		components,
	)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("✅ Server stopped gracefully")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newReplyStore picks the reply cache backend. The returned store is nil
// when caching is off.
func newReplyStore(cfg *config.Config, logger *zap.Logger) (ai.ReplyStore, func(), error) {
	switch cfg.Cache.Backend {
	case "memory":
		store := cache.NewMemoryStore()
		return store, func() { store.Close() }, nil
	case "redis":
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("📦 Redis reply cache ready", zap.String("addr", cfg.GetRedisAddr()))
		store := cache.NewRedisStore(client)
		return store, func() { store.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

func mustOpenDatabase(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Production deployments manage the schema with scripts/migrate.go
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			logger.Fatal("DB_AUTO_MIGRATE is enabled in production; run scripts/migrate.go instead")
		}
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}
	return db
}
