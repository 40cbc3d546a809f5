package assignment

import (
	"context"
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/pricing"
)

type orderLedger interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ConditionalUpdate(ctx context.Context, o *domain.Order, expectedVersion int64) (*domain.Order, error)
}

type driverRepository interface {
	Get(ctx context.Context, id string) (*domain.Driver, error)
}

type restaurantNotifier interface {
	NotifyPickup(ctx context.Context, restaurantID, orderID, courierID string) error
}

type earningsRecorder interface {
	Record(ctx context.Context, e domain.Earning) (bool, error)
}

type priceQuoter interface {
	Quote(o *domain.Order, vehicle domain.VehicleType, now time.Time) pricing.Quote
}
