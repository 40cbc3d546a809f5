package handlers

import (
	"context"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/assignment"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/courier"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/query"
)

type assignmentUsecase interface {
	Claim(ctx context.Context, orderID, courierID string) (*domain.Order, error)
	MarkPickedUp(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error)
	Complete(ctx context.Context, orderID, courierID, notes, proof string) (*domain.Order, error)
	Reject(ctx context.Context, orderID, courierID, reason string) (*domain.Order, error)
}

// NewAssignmentUsecase wires an assignment.Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}

type queryUsecase interface {
	ListAvailable(ctx context.Context, courierID string, page, limit int) (query.Page, error)
	ListForCourier(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (query.Page, error)
}

// NewQueryUsecase wires a query.Service into a queryUsecase.
func NewQueryUsecase(svc *query.Service) queryUsecase {
	return svc
}

type courierUsecase interface {
	Onboard(ctx context.Context, in courier.OnboardInput) (*domain.Driver, error)
	Get(ctx context.Context, courierID string) (*domain.Driver, error)
	Update(ctx context.Context, u domain.PartialDriverUpdate) (*domain.Driver, error)
	SetAvailability(ctx context.Context, courierID string, available bool) (*domain.Driver, error)
	UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (*domain.Location, error)
	Stats(ctx context.Context, courierID string) (*domain.DriverStats, error)
	Earnings(ctx context.Context, courierID string, limit int) ([]domain.Earning, error)
}

// NewCourierUsecase wires a courier.Service into a courierUsecase.
func NewCourierUsecase(svc *courier.Service) courierUsecase {
	return svc
}
