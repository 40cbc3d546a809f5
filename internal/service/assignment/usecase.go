package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

// Service coordinates order assignment against the external order
// ledger. It never holds locks: every transition is a read, a domain
// mutation, and one conditional write keyed by the version read. The
// ledger's compare-and-swap is what guarantees a single claim winner.
type Service struct {
	ledger           orderLedger
	drivers          driverRepository
	restaurants      restaurantNotifier
	earnings         earningsRecorder
	pricer           priceQuoter
	claimConflicts   prometheus.Counter
	operationTimeout time.Duration
	notifyTimeout    time.Duration
	logger           logx.Logger
	now              func() time.Time
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService - creates a new assignment Service.
func NewService(
	ledger orderLedger,
	drivers driverRepository,
	restaurants restaurantNotifier,
	earnings earningsRecorder,
	pricer priceQuoter,
	claimConflicts prometheus.Counter,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		ledger:           ledger,
		drivers:          drivers,
		restaurants:      restaurants,
		earnings:         earnings,
		pricer:           pricer,
		claimConflicts:   claimConflicts,
		operationTimeout: timeout,
		notifyTimeout:    5 * time.Second,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// EnsureAvailable checks that the courier exists, is verified, and has
// availability switched on. Couriers who fail the gate cannot see or
// claim work.
func (s *Service) EnsureAvailable(ctx context.Context, courierID string) (*domain.Driver, error) {
	courierID, err := validateID(courierID)
	if err != nil {
		return nil, err
	}

	d, err := s.drivers.Get(ctx, courierID)
	if err != nil {
		// The profile store is a collaborator of the gate: its outage
		// must not masquerade as an internal fault.
		return nil, fmt.Errorf("availability gate: %v: %w", err, apperr.ErrDependencyUnavailable)
	}
	if d == nil || d.Status != domain.DriverVerified || !d.IsAvailable {
		return nil, apperr.ErrNotAvailable
	}
	return d, nil
}

// Claim assigns a confirmed, unassigned order to the courier. The
// delivery fee is computed here, once, and written with the claim; the
// amount the courier saw advertised is the amount they are paid.
// A version conflict means another courier won the same order; the
// claim is re-attempted once against a fresh read before giving up.
func (s *Service) Claim(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.EnsureAvailable(ctx, courierID)
	if err != nil {
		return nil, err
	}

	updated, err := s.attemptClaim(ctx, orderID, d)
	if errors.Is(err, apperr.ErrConflict) {
		s.claimConflicts.Inc()
		updated, err = s.attemptClaim(ctx, orderID, d)
		if errors.Is(err, apperr.ErrConflict) {
			s.claimConflicts.Inc()
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery claimed",
		logx.String("event", "delivery_claimed"),
		logx.String("order_id", updated.ID),
		logx.String("courier_id", d.ID),
		logx.Float64("delivery_fee", updated.DeliveryFee),
		logx.Int64("version", updated.Version),
	)
	return updated, nil
}

func (s *Service) attemptClaim(ctx context.Context, orderID string, d *domain.Driver) (*domain.Order, error) {
	o, err := s.ledger.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote := s.pricer.Quote(o, d.VehicleType, now)

	prev := o.Version
	if err := o.Claim(d.ID, quote.Fee, now); err != nil {
		return nil, err
	}
	return s.ledger.ConditionalUpdate(ctx, o, prev)
}

// MarkPickedUp stamps the pickup by the assigned courier and notifies
// the restaurant off the request path.
func (s *Service) MarkPickedUp(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}
	courierID, err = validateID(courierID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.ledger.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	prev := o.Version
	if err := o.MarkPickedUp(courierID, notes, s.now()); err != nil {
		return nil, err
	}
	updated, err := s.ledger.ConditionalUpdate(ctx, o, prev)
	if err != nil {
		return nil, err
	}

	go s.notifyRestaurant(updated.RestaurantID, updated.ID, courierID)

	s.logger.Info("delivery picked up",
		logx.String("event", "delivery_picked_up"),
		logx.String("order_id", updated.ID),
		logx.String("courier_id", courierID),
	)
	return updated, nil
}

func (s *Service) notifyRestaurant(restaurantID, orderID, courierID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	if err := s.restaurants.NotifyPickup(ctx, restaurantID, orderID, courierID); err != nil {
		s.logger.Warn("pickup notification failed",
			logx.String("order_id", orderID),
			logx.String("restaurant_id", restaurantID),
			logx.Err(err),
		)
	}
}

// Complete finishes the delivery and records the payout. The payout row
// is keyed by (courier, order) so a replay after a partial failure
// cannot double-pay.
func (s *Service) Complete(ctx context.Context, orderID, courierID, notes, proof string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}
	courierID, err = validateID(courierID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.ledger.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	prev := o.Version
	if err := o.Complete(courierID, notes, proof, now); err != nil {
		return nil, err
	}
	updated, err := s.ledger.ConditionalUpdate(ctx, o, prev)
	if err != nil {
		return nil, err
	}

	if _, err := s.earnings.Record(ctx, domain.Earning{
		CourierID:   courierID,
		OrderID:     updated.ID,
		Fee:         updated.DeliveryFee,
		DeliveredAt: now,
	}); err != nil {
		// The delivered event consumer reconciles missed payouts.
		s.logger.Error("earning not recorded",
			logx.String("order_id", updated.ID),
			logx.String("courier_id", courierID),
			logx.Err(err),
		)
	}

	s.logger.Info("delivery completed",
		logx.String("event", "delivery_completed"),
		logx.String("order_id", updated.ID),
		logx.String("courier_id", courierID),
		logx.Float64("delivery_fee", updated.DeliveryFee),
	)
	return updated, nil
}

// Reject records a mandatory rejection reason. An assigned order goes
// back to the pool; an unclaimed one is terminally rejected. Validation
// happens before any ledger write, so a missing reason changes nothing.
func (s *Service) Reject(ctx context.Context, orderID, courierID, reason string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.ledger.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	prev := o.Version
	if err := o.Reject(courierID, reason, s.now()); err != nil {
		return nil, err
	}
	updated, err := s.ledger.ConditionalUpdate(ctx, o, prev)
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery rejected",
		logx.String("event", "delivery_rejected"),
		logx.String("order_id", updated.ID),
		logx.String("courier_id", courierID),
		logx.String("status", string(updated.Status)),
	)
	return updated, nil
}

func validateID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperr.ErrValidation
	}
	return id, nil
}
