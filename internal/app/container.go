package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/DevLaukey/cesi-delivery-ms/internal/config"
	identitygw "github.com/DevLaukey/cesi-delivery-ms/internal/gateway/identity"
	ledgergw "github.com/DevLaukey/cesi-delivery-ms/internal/gateway/ledger"
	restaurantgw "github.com/DevLaukey/cesi-delivery-ms/internal/gateway/restaurant"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/handlers"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/middleware"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/pprofserver"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/router"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
	"github.com/DevLaukey/cesi-delivery-ms/internal/pricing"
	"github.com/DevLaukey/cesi-delivery-ms/internal/repository"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/assignment"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/courier"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/query"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
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
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
	)
}

func registerMetrics(container *dig.Container) error {
	named := []struct {
		provider any
		name     string
	}{
		{newClaimConflictsCounter, "claim_conflicts_total"},
		{newPricingFallbacksCounter, "pricing_fallbacks_total"},
		{newRateLimitExceededCounter, "rate_limit_exceeded_total"},
	}
	for _, p := range named {
		if err := container.Provide(p.provider, dig.Name(p.name)); err != nil {
			return fmt.Errorf("provide %s: %w", p.name, err)
		}
	}
	return provideAll(container, newGatewayFailuresVec)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container,
		providerDB,
		repository.NewDriverRepo,
		repository.NewEarningsRepo,
	)
}

func gatewayHTTPClient(g config.Gateway) *http.Client {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, vec *prometheus.CounterVec) *ledgergw.Client {
			return ledgergw.New(cfg.Ledger.BaseURL, gatewayHTTPClient(cfg.Ledger), vec.WithLabelValues("ledger"))
		},
		func(cfg *config.Config, vec *prometheus.CounterVec) *restaurantgw.Client {
			return restaurantgw.New(cfg.Restaurant.BaseURL, gatewayHTTPClient(cfg.Restaurant), vec.WithLabelValues("restaurant"))
		},
		func(cfg *config.Config, vec *prometheus.CounterVec) *identitygw.Client {
			return identitygw.New(cfg.Identity.BaseURL, gatewayHTTPClient(cfg.Identity), vec.WithLabelValues("identity"))
		},
		func(c *identitygw.Client) middleware.TokenVerifier { return c },
	)
}

type pricingIn struct {
	dig.In

	Cfg       *config.Config
	Fallbacks prometheus.Counter `name:"pricing_fallbacks_total"`
}

func newPricingEngine(in pricingIn) *pricing.Engine {
	rates := pricing.DefaultRates()
	rates.BaseRate = in.Cfg.Pricing.BaseRate
	rates.DistanceRate = in.Cfg.Pricing.DistanceRate
	rates.MinimumFee = in.Cfg.Pricing.MinimumFee
	rates.MaximumFee = in.Cfg.Pricing.MaximumFee
	return pricing.NewEngine(rates, in.Fallbacks)
}

type assignmentIn struct {
	dig.In

	Ledger         *ledgergw.Client
	Drivers        *repository.DriverRepo
	Restaurants    *restaurantgw.Client
	Earnings       *repository.EarningsRepo
	Pricer         *pricing.Engine
	ClaimConflicts prometheus.Counter `name:"claim_conflicts_total"`
	Cfg            *config.Config
	Logger         logx.Logger
}

func newAssignmentService(in assignmentIn) *assignment.Service {
	return assignment.NewService(
		in.Ledger,
		in.Drivers,
		in.Restaurants,
		in.Earnings,
		in.Pricer,
		in.ClaimConflicts,
		in.Cfg.OperationTimeout,
		in.Logger,
	)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newPricingEngine,
		newAssignmentService,
		func(
			ledger *ledgergw.Client,
			gate *assignment.Service,
			restaurants *restaurantgw.Client,
			engine *pricing.Engine,
			cfg *config.Config,
			logger logx.Logger,
		) *query.Service {
			return query.NewService(ledger, gate, restaurants, engine, cfg.OperationTimeout, logger)
		},
		func(
			drivers *repository.DriverRepo,
			earnings *repository.EarningsRepo,
			identity *identitygw.Client,
			cfg *config.Config,
			logger logx.Logger,
		) *courier.Service {
			return courier.NewService(drivers, earnings, identity, cfg.OperationTimeout, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pprofProvider := func(cfg *config.Config) *http.Server {
		return pprofserver.NewServer(pprofserver.Config{
			Port: cfg.Pprof.Port,
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		})
	}
	if err := container.Provide(pprofProvider, dig.Name("pprof_server")); err != nil {
		return fmt.Errorf("provide pprof server: %w", err)
	}
	return provideAll(container,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		handlers.New,
		handlers.NewAssignmentUsecase,
		handlers.NewQueryUsecase,
		handlers.NewCourierUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewCourierHandler,
		router.New,
		serverProvider,
	)
}
