package pricing

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

// Rates holds every pricing constant. All of it is configuration;
// DefaultRates matches the production defaults.
type Rates struct {
	BaseRate     float64
	DistanceRate float64
	MinimumFee   float64
	MaximumFee   float64

	VehicleMultipliers map[domain.VehicleType]float64
	SurgeMultipliers   map[domain.Priority]float64
}

// DefaultRates returns the default delivery rates.
func DefaultRates() Rates {
	return Rates{
		BaseRate:     3.5,
		DistanceRate: 0.5,
		MinimumFee:   2.5,
		MaximumFee:   25.0,
		VehicleMultipliers: map[domain.VehicleType]float64{
			domain.VehicleBike:    1.0,
			domain.VehicleScooter: 1.2,
			domain.VehicleCar:     1.5,
			domain.VehicleTruck:   2.0,
		},
		SurgeMultipliers: map[domain.Priority]float64{
			domain.PriorityNormal: 1.0,
			domain.PriorityBusy:   1.3,
			domain.PriorityPeak:   1.5,
			domain.PriorityUrgent: 2.0,
		},
	}
}

// Estimated-time constants: prep time plus per-km travel, shown to the
// courier as a [lo, hi] minute range with a 10-minute floor.
const (
	basePrepMinutes  = 15
	minutesPerKm     = 3
	rangeLowerOffset = 5
	rangeUpperOffset = 10
	minRangeLowerMin = 10
)

// Priority thresholds on order age.
const (
	busyAfter   = 15 * time.Minute
	urgentAfter = 30 * time.Minute
)

// Heuristic distance bounds when the order declares no distance.
const (
	heuristicMinKm = 1.0
	heuristicMaxKm = 10.0
)

// Quote is the full pricing view of one order, computed fresh on every
// request. Never cached: priority depends on current order age.
type Quote struct {
	DistanceKm  float64
	Fee         float64
	Priority    domain.Priority
	EstimateLo  int
	EstimateHi  int
	VehicleType domain.VehicleType
}

// Engine computes delivery fees. Pure and deterministic: identical
// inputs always produce the identical fee. Computation errors never
// propagate; the engine falls back to the minimum fee instead.
type Engine struct {
	rates     Rates
	fallbacks prometheus.Counter
}

// NewEngine creates a pricing engine. Zero-valued rates fields are
// replaced by defaults so a partially configured engine stays sane.
func NewEngine(rates Rates, fallbacks prometheus.Counter) *Engine {
	def := DefaultRates()
	if rates.BaseRate <= 0 {
		rates.BaseRate = def.BaseRate
	}
	if rates.DistanceRate <= 0 {
		rates.DistanceRate = def.DistanceRate
	}
	if rates.MinimumFee <= 0 {
		rates.MinimumFee = def.MinimumFee
	}
	if rates.MaximumFee <= rates.MinimumFee {
		rates.MaximumFee = def.MaximumFee
	}
	if len(rates.VehicleMultipliers) == 0 {
		rates.VehicleMultipliers = def.VehicleMultipliers
	}
	if len(rates.SurgeMultipliers) == 0 {
		rates.SurgeMultipliers = def.SurgeMultipliers
	}
	return &Engine{rates: rates, fallbacks: fallbacks}
}

// Rates returns the engine's effective rates.
func (e *Engine) Rates() Rates { return e.rates }

// Fee computes the delivery fee for an order:
//
//	fee = (base + distance*rate) * vehicleMultiplier * surgeMultiplier
//
// clamped to [MinimumFee, MaximumFee] and rounded to 2 decimals.
// Unknown vehicle types and priorities multiply by 1.0. Malformed
// orders yield the minimum fee; pricing must never block order flow.
func (e *Engine) Fee(o *domain.Order, vehicle domain.VehicleType, priority domain.Priority) float64 {
	dist, ok := e.distance(o)
	if !ok {
		return e.fallback()
	}

	fee := e.rates.BaseRate + dist*e.rates.DistanceRate
	fee *= e.multiplier(e.rates.VehicleMultipliers, vehicle)
	fee *= e.surge(priority)

	if math.IsNaN(fee) || math.IsInf(fee, 0) {
		return e.fallback()
	}

	fee = math.Max(e.rates.MinimumFee, math.Min(fee, e.rates.MaximumFee))
	return round2(fee)
}

// EstimateDistance returns the distance used for pricing: the declared
// distance when present and positive, otherwise a heuristic from the
// order total. The heuristic is a stand-in absent real geodata; callers
// must not assume accuracy.
func (e *Engine) EstimateDistance(o *domain.Order) float64 {
	dist, ok := e.distance(o)
	if !ok {
		return heuristicMinKm
	}
	return dist
}

// EstimateTime returns the displayed delivery estimate as a minute
// range [lo, hi], lo floored at 10 minutes.
func (e *Engine) EstimateTime(o *domain.Order) (lo, hi int) {
	dist, ok := e.distance(o)
	if !ok {
		dist = heuristicMinKm
	}
	total := int(math.Round(basePrepMinutes + dist*minutesPerKm))
	lo = total - rangeLowerOffset
	if lo < minRangeLowerMin {
		lo = minRangeLowerMin
	}
	return lo, total + rangeUpperOffset
}

// PriorityFor derives order priority from its age at now. Monotonic
// staleness signal; recomputed at query time, never persisted.
func (e *Engine) PriorityFor(o *domain.Order, now time.Time) domain.Priority {
	if o == nil || o.CreatedAt.IsZero() {
		return domain.PriorityNormal
	}
	switch age := o.Age(now); {
	case age > urgentAfter:
		return domain.PriorityUrgent
	case age > busyAfter:
		return domain.PriorityBusy
	default:
		return domain.PriorityNormal
	}
}

// Quote computes the full pricing view for one order at now.
func (e *Engine) Quote(o *domain.Order, vehicle domain.VehicleType, now time.Time) Quote {
	if !vehicle.Valid() {
		vehicle = domain.VehicleBike
	}
	priority := e.PriorityFor(o, now)
	lo, hi := e.EstimateTime(o)
	return Quote{
		DistanceKm:  e.EstimateDistance(o),
		Fee:         e.Fee(o, vehicle, priority),
		Priority:    priority,
		EstimateLo:  lo,
		EstimateHi:  hi,
		VehicleType: vehicle,
	}
}

// distance reports the pricing distance and whether the order was well
// formed enough to price at all.
func (e *Engine) distance(o *domain.Order) (float64, bool) {
	if o == nil {
		return 0, false
	}
	if d := o.DeclaredDistance; d != nil {
		if math.IsNaN(*d) || math.IsInf(*d, 0) {
			return 0, false
		}
		if *d > 0 {
			return round1(*d), true
		}
	}
	total := o.TotalAmount
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return 0, false
	}
	dist := math.Max(heuristicMinKm, math.Min(heuristicMaxKm, total/10))
	return round1(dist), true
}

func (e *Engine) multiplier(m map[domain.VehicleType]float64, v domain.VehicleType) float64 {
	if f, ok := m[v]; ok && f > 0 {
		return f
	}
	return 1.0
}

func (e *Engine) surge(p domain.Priority) float64 {
	if f, ok := e.rates.SurgeMultipliers[p]; ok && f > 0 {
		return f
	}
	return 1.0
}

func (e *Engine) fallback() float64 {
	if e.fallbacks != nil {
		e.fallbacks.Inc()
	}
	return round2(e.rates.MinimumFee)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
