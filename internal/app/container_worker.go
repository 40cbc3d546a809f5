package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/DevLaukey/cesi-delivery-ms/internal/config"
	ledgergw "github.com/DevLaukey/cesi-delivery-ms/internal/gateway/ledger"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
	"github.com/DevLaukey/cesi-delivery-ms/internal/repository"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/orders"
	"github.com/DevLaukey/cesi-delivery-ms/internal/transport/kafka"
)

// WorkerContainerBuilder assembles the DI container for the order-events
// worker. It shares the core, metrics, db, and ledger providers with the
// HTTP service and adds the Kafka consumer on top.
type WorkerContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewWorkerContainerBuilder returns a new worker container builder
func NewWorkerContainerBuilder() *WorkerContainerBuilder {
	return &WorkerContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *WorkerContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *WorkerContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// MustBuild builds and returns a new dig container for the worker
func (b *WorkerContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *WorkerContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

// MustBuildWorkerContainer builds and returns a new dig container for the worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewWorkerContainerBuilder().MustBuild(ctx)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(ledger *ledgergw.Client, earnings *repository.EarningsRepo, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(ledger, earnings, logger)
		},
		makeOrdersHandler,
		func(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
		},
	)
}

func makeOrdersHandler(p *orders.Processor) kafka.HandleFunc {
	return p.Handle
}
