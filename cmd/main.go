package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_hub/internal/config"
	v1 "github.com/shenikar/incident_hub/internal/handler/http/v1"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/realtime"
	"github.com/shenikar/incident_hub/internal/repository"
	"github.com/shenikar/incident_hub/internal/service"
	"github.com/shenikar/incident_hub/internal/store"
	"github.com/shenikar/incident_hub/internal/webhook"
	"github.com/shenikar/incident_hub/pkg/logger"
	"github.com/shenikar/incident_hub/pkg/postgres"
	redisclient "github.com/shenikar/incident_hub/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/incident_hub/docs"
)

const webhookMemoryQueueSize = 1024

// openJournal выбирает журнал: PostgreSQL, если задан DATABASE_URL, иначе память процесса
func openJournal(ctx context.Context, cfg *config.Config, log *logrus.Logger) (repository.EventJournal, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory journal; state is lost on restart")
		return repository.NewMemoryJournal(), func() {}, nil
	}

	log.Info("Running database migrations...")
	if err := postgres.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return nil, nil, err
	}
	log.Info("Database migrations applied successfully")

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to PostgreSQL")
	return repository.NewPostgresJournal(dbpool), dbpool.Close, nil
}

// @title Incident Hub API
// @version 1.0
// @description Community incident reporting: idempotent intake, spatial queries, windowed statistics and security areas.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)
	metrics.Register()

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal, closeJournal, err := openJournal(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open event journal: %v", err)
	}
	defer closeJournal()

	// Хранилище восстанавливается из журнала до приема запросов
	incidentStore := store.New(journal, log, store.Options{
		CellLevel:      cfg.SpatialCellLevel,
		RetentionHours: cfg.RetentionHours,
	})
	if err := incidentStore.Restore(ctx); err != nil {
		log.Fatalf("Failed to restore state from journal: %v", err)
	}
	if cfg.SeedAreas {
		seeded, err := incidentStore.SeedAreas(ctx)
		if err != nil {
			log.Fatalf("Failed to seed security areas: %v", err)
		}
		if seeded > 0 {
			log.WithField("count", seeded).Info("Seeded default security areas")
		}
	}

	// Живая лента
	hub := realtime.NewHub(log)
	go hub.Run(ctx)
	incidentStore.AddNotifier(hub)

	// Инициализация Redis клиента (необязателен)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	// Издатель и воркер вебхуков
	var webhookWorker *webhook.WebhookWorker
	if cfg.WebhookURL != "" {
		var queue webhook.Queue = webhook.NewMemoryQueue(webhookMemoryQueueSize)
		if redisClient != nil {
			queue = webhook.NewRedisQueue(redisClient)
		}
		incidentStore.AddNotifier(webhook.NewPublisher(queue, log))
		webhookWorker = webhook.NewWebhookWorker(queue, log, cfg)
		webhookWorker.Start(ctx)
	}

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentStore, log)

	// Инициализация хэндлеров и роутера
	handler := v1.NewHandler(incidentService, log, cfg, hub)
	router := v1.NewRouter(handler)

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.WithField("incidents", incidentStore.Len()).Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые задачи после того, как сервер перестал принимать запросы
	cancel()
	if webhookWorker != nil {
		webhookWorker.Wait()
	}

	log.Info("Server gracefully stopped")
}
