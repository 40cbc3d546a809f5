package query

import (
	"context"
	"sort"
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
	"github.com/DevLaukey/cesi-delivery-ms/internal/pricing"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// EnrichedOrder is an order decorated with restaurant metadata and a
// live quote for the requesting courier. Restaurant is nil when the
// restaurant collaborator could not resolve it.
type EnrichedOrder struct {
	Order      domain.Order
	Restaurant *domain.Restaurant
	Quote      pricing.Quote
}

// Page is one page of enriched orders.
type Page struct {
	Items []EnrichedOrder
	Page  int
	Limit int
	Total int
	Pages int
}

// Service answers courier-facing order queries. The ledger only offers
// a full list, so filtering, ordering, and pagination happen here.
type Service struct {
	ledger           orderLister
	gate             availabilityGate
	restaurants      restaurantResolver
	pricer           priceQuoter
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService - creates a new query Service.
func NewService(
	ledger orderLister,
	gate availabilityGate,
	restaurants restaurantResolver,
	pricer priceQuoter,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		ledger:           ledger,
		gate:             gate,
		restaurants:      restaurants,
		pricer:           pricer,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// ListAvailable returns claimable orders for an available courier,
// most urgent first, quoted against the courier's vehicle.
func (s *Service) ListAvailable(ctx context.Context, courierID string, page, limit int) (Page, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.gate.EnsureAvailable(ctx, courierID)
	if err != nil {
		return Page{}, err
	}

	orders, err := s.ledger.List(ctx)
	if err != nil {
		return Page{}, err
	}

	now := s.now()
	claimable := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Claimable() {
			claimable = append(claimable, o)
		}
	}
	sort.SliceStable(claimable, func(i, j int) bool {
		pi := priorityRank(s.pricer.Quote(&claimable[i], d.VehicleType, now).Priority)
		pj := priorityRank(s.pricer.Quote(&claimable[j], d.VehicleType, now).Priority)
		if pi != pj {
			return pi > pj
		}
		return claimable[i].CreatedAt.Before(claimable[j].CreatedAt)
	})

	return s.paginate(ctx, claimable, d.VehicleType, page, limit), nil
}

// ListForCourier returns the courier's own orders, optionally filtered
// by status, newest first. No availability gate: history stays readable
// while the courier is off shift.
func (s *Service) ListForCourier(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (Page, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	orders, err := s.ledger.List(ctx)
	if err != nil {
		return Page{}, err
	}

	mine := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !o.AssignedTo(courierID) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		mine = append(mine, o)
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	return s.paginate(ctx, mine, domain.VehicleBike, page, limit), nil
}

func (s *Service) paginate(ctx context.Context, orders []domain.Order, vehicle domain.VehicleType, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total := len(orders)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	window := orders[start:end]

	restaurants := s.resolveRestaurants(ctx, window)

	now := s.now()
	items := make([]EnrichedOrder, 0, len(window))
	for _, o := range window {
		item := EnrichedOrder{
			Order: o,
			Quote: s.pricer.Quote(&o, vehicle, now),
		}
		if r, ok := restaurants[o.RestaurantID]; ok {
			rc := r
			item.Restaurant = &rc
		}
		items = append(items, item)
	}

	return Page{Items: items, Page: page, Limit: limit, Total: total, Pages: pages}
}

// resolveRestaurants is best-effort: a failing restaurant collaborator
// degrades the listing to bare orders instead of failing it.
func (s *Service) resolveRestaurants(ctx context.Context, orders []domain.Order) map[string]domain.Restaurant {
	seen := make(map[string]struct{}, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.RestaurantID == "" {
			continue
		}
		if _, ok := seen[o.RestaurantID]; ok {
			continue
		}
		seen[o.RestaurantID] = struct{}{}
		ids = append(ids, o.RestaurantID)
	}
	if len(ids) == 0 {
		return nil
	}

	restaurants, err := s.restaurants.BulkGet(ctx, ids)
	if err != nil {
		s.logger.Warn("restaurant enrichment skipped",
			logx.Int("restaurants", len(ids)),
			logx.Err(err),
		)
		return nil
	}
	return restaurants
}

func priorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityUrgent:
		return 3
	case domain.PriorityPeak:
		return 2
	case domain.PriorityBusy:
		return 1
	default:
		return 0
	}
}
