package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mroshb/trivia_bot/internal/config"
	"github.com/mroshb/trivia_bot/internal/database"
	"github.com/mroshb/trivia_bot/internal/handlers"
	"github.com/mroshb/trivia_bot/internal/metrics"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/internal/repositories"
	"github.com/mroshb/trivia_bot/internal/services"
	"github.com/mroshb/trivia_bot/pkg/logger"
	"github.com/mroshb/trivia_bot/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.AppEnv == "development")
	defer logger.Sync()

	logger.Info("Starting Trivia Quiz Bot...",
		"rounds", cfg.RoundCount,
		"answer_mode", cfg.AnswerMode,
		"delivery", cfg.DeliveryMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bank, err := loadQuestionBank(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to load question bank", err)
	}
	if err := bank.EnsureCapacity(cfg.RoundCount); err != nil {
		logger.Fatal("Question bank is too small", err)
	}

	var locker quiz.SessionLocker
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, session locks will retry per game", "error", err)
		}
		locker = repositories.NewSessionLockRepository(redisClient, cfg.GetSessionLockTTL())
		logger.Info("Session lock enabled", "addr", cfg.RedisAddr)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	quizSvc := services.NewQuizService(
		services.NewQuizSettings(cfg),
		bank,
		quiz.NewRegistry(locker),
		bot,
		quiz.RealClock{},
		m,
	)
	bot.Start(handlers.NewHandlerManager(cfg, quizSvc))

	logger.Info("Bot started successfully", "env", cfg.AppEnv, "questions", bank.Size())

	eg, egCtx := errgroup.WithContext(ctx)
	if cfg.MetricsPort != "" {
		server := &http.Server{
			Addr:              ":" + cfg.MetricsPort,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		eg.Go(func() error {
			logger.Info("Metrics listening", "port", cfg.MetricsPort)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-egCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	// Graceful shutdown
	<-egCtx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Stop intake first so no update reaches the service after it shuts down.
	bot.Stop()
	quizSvc.Shutdown(shutdownCtx)

	stop()
	if err := eg.Wait(); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
	logger.Info("Bot stopped")
}

// loadQuestionBank picks the question source: an xlsx file, then postgres,
// then the builtin catalog.
func loadQuestionBank(ctx context.Context, cfg *config.Config) (*quiz.Bank, error) {
	if cfg.QuestionsFile != "" {
		logger.Info("Loading questions from file", "path", cfg.QuestionsFile)
		return services.LoadBank(ctx, repositories.NewExcelQuestionSource(cfg.QuestionsFile))
	}

	if cfg.HasDatabase() {
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		if err := database.SeedQuestions(ctx, db); err != nil {
			logger.Warn("Failed to seed questions", "error", err)
		}
		return services.LoadBank(ctx, repositories.NewQuestionRepository(db))
	}

	logger.Info("Using builtin question catalog")
	return services.LoadBank(ctx, services.StaticQuestions(database.DefaultQuizQuestions()))
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}
