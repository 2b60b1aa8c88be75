package main

import (
	"flag"
	"log"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/internal/infrastructure/database"
	"github.com/johnquangdev/interview-segmenter/pkg/config"
)

func main() {
	dir := flag.String("dir", database.DefaultMigrationsDir, "directory holding the SQL migrations")
	down := flag.Bool("down", false, "roll back instead of applying")
	steps := flag.Int("steps", 0, "maximum number of migrations to run (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	direction := migrate.Up
	if *down {
		direction = migrate.Down
		if *steps == 0 {
			*steps = 1
		}
	}

	logger.Info("🔄 Running migrations", zap.String("dir", *dir), zap.Bool("down", *down), zap.Int("steps", *steps))
	if _, err := database.Migrate(db, *dir, direction, *steps, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
}
