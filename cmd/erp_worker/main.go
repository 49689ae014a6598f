package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/openledgerhq/erp_backend/internal/core/services"
	"github.com/openledgerhq/erp_backend/internal/platform/config"
	"github.com/openledgerhq/erp_backend/internal/platform/messaging/kafka"
	"github.com/openledgerhq/erp_backend/internal/repositories/database/pgsql"
	"github.com/openledgerhq/erp_backend/pkg/database"
)

// The worker consumes domain events from Kafka and posts the corresponding
// ledger entries. It runs alongside the API server and shares its database.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !cfg.EventsEnabled {
		logger.Error("Events are disabled; the worker requires KAFKA_BROKERS and EVENTS_ENABLED=true")
		os.Exit(1)
	}
	if !cfg.AsyncPosting {
		logger.Error("The worker derives ledger postings from events and requires ASYNC_POSTING=true; running it against a synchronously posting API server would post everything twice")
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	// The worker's services carry no publisher: a consumed event must not fan
	// out into fresh events, or a StockLevelLow retry would loop forever.
	repos := pgsql.NewRepositoryProvider(dbPool)
	accountingSvc := services.NewAccountingService(repos.JournalRepo)
	procurementSvc := services.NewProcurementService(repos.PurchaseOrderRepo, repos.InventoryRepo, accountingSvc, nil, cfg.ReorderLeadTimeDays, false)
	inventorySvc := services.NewInventoryService(repos.InventoryRepo, procurementSvc, nil)
	consumerSvc := services.NewEventConsumerService(accountingSvc, inventorySvc, repos.ProcessedEventRepo)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, consumerSvc.HandleEvent, logger)
	defer func() {
		if cerr := consumer.Close(); cerr != nil {
			logger.Error("Error closing Kafka consumer", slog.String("error", cerr.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker starting",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("group", cfg.KafkaConsumerGroup),
	)

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Worker stopped")
}
