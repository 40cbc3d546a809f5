package courier

import (
	"context"
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

type driverRepository interface {
	Get(ctx context.Context, id string) (*domain.Driver, error)
	Create(ctx context.Context, d *domain.Driver) error
	UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error)
	SetAvailability(ctx context.Context, id string, available bool) (bool, error)
	UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) (bool, error)
}

type earningsReader interface {
	Stats(ctx context.Context, courierID string) (*domain.DriverStats, error)
	List(ctx context.Context, courierID string, limit int) ([]domain.Earning, error)
}

type identityPusher interface {
	PushAvailability(ctx context.Context, courierID string, available bool) error
	PushLocation(ctx context.Context, courierID string, lat, lng float64) error
}
