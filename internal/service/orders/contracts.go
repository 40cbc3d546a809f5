package orders

import (
	"context"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

// LedgerPort abstracts the order-ledger read used when handling order events.
type LedgerPort interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// EarningsPort abstracts the payout ledger write used when reconciling
// delivered orders.
type EarningsPort interface {
	Record(ctx context.Context, e domain.Earning) (bool, error)
}
