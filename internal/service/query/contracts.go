package query

import (
	"context"
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/pricing"
)

type orderLister interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type availabilityGate interface {
	EnsureAvailable(ctx context.Context, courierID string) (*domain.Driver, error)
}

type restaurantResolver interface {
	BulkGet(ctx context.Context, ids []string) (map[string]domain.Restaurant, error)
}

type priceQuoter interface {
	Quote(o *domain.Order, vehicle domain.VehicleType, now time.Time) pricing.Quote
}
