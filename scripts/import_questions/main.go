package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/mroshb/trivia_bot/internal/config"
	"github.com/mroshb/trivia_bot/internal/database"
	"github.com/mroshb/trivia_bot/internal/repositories"
	"github.com/mroshb/trivia_bot/pkg/logger"
)

func main() {
	path := flag.String("file", "", "xlsx workbook to import (one sheet per category)")
	dryRun := flag.Bool("dry-run", false, "parse the workbook without writing to the database")
	flag.Parse()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.Init("info", false)
	defer logger.Sync()

	if *path == "" {
		log.Fatal("usage: import_questions -file questions.xlsx [-dry-run]")
	}

	ctx := context.Background()
	questions, err := repositories.NewExcelQuestionSource(*path).ListQuizQuestions(ctx)
	if err != nil {
		logger.Fatal("Failed to read workbook", err)
	}
	logger.Info("Parsed workbook", "path", *path, "questions", len(questions))

	if *dryRun {
		return
	}

	cfg := config.LoadDatabaseConfig()
	if !cfg.HasDatabase() {
		log.Fatal("DB_PASSWORD is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	inserted, err := repositories.NewQuestionRepository(db).CreateBatch(ctx, questions)
	if err != nil {
		logger.Fatal("Failed to import questions", err)
	}
	logger.Info("Import finished", "inserted", inserted, "skipped_duplicates", int64(len(questions))-inserted)
}
