package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

// Processor consumes the order event stream and reconciles local state
// against the ledger. Its main job is payout repair: a delivered event
// re-records the earning, and the unique payout key makes the replay a
// no-op when the request path already recorded it.
type Processor struct {
	ledger   LedgerPort
	earnings EarningsPort
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(ledger LedgerPort, earnings EarningsPort, logger logx.Logger) *Processor {
	p := &Processor{
		ledger:   ledger,
		earnings: earnings,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onDelivered, p.onCanceled)
	return p
}

// Handle processes a single orders.Event
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onDelivered(ctx context.Context, e Event) error {
	o, err := p.ledger.GetByID(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// The ledger, not the event payload, is the source of truth.
	if o.Status != domain.StatusDelivered {
		return nil
	}
	if !o.Assigned() {
		// No courier to pay; redelivering the event cannot change that.
		return Permanent(fmt.Errorf("delivered order %s has no assigned courier", o.ID))
	}

	deliveredAt := e.CreatedAt
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}

	inserted, err := p.earnings.Record(ctx, domain.Earning{
		CourierID:   *o.CourierID,
		OrderID:     o.ID,
		Fee:         o.DeliveryFee,
		DeliveredAt: deliveredAt,
	})
	if err != nil {
		return err
	}
	if inserted {
		p.logger.Info("payout reconciled",
			logx.String("event", "payout_reconciled"),
			logx.String("order_id", o.ID),
			logx.String("courier_id", *o.CourierID),
			logx.Float64("delivery_fee", o.DeliveryFee),
		)
	}
	return nil
}

func (p *Processor) onCanceled(ctx context.Context, e Event) error {
	o, err := p.ledger.GetByID(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if o.Assigned() {
		p.logger.Warn("order canceled mid-delivery",
			logx.String("event", "order_canceled_assigned"),
			logx.String("order_id", o.ID),
			logx.String("courier_id", *o.CourierID),
		)
	}
	return nil
}
