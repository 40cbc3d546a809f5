package domain

import (
	"strings"
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
)

// OrderItem is a single line item on an order.
type OrderItem struct {
	Name     string
	Quantity int
	Price    float64
}

// Order is the unit of work exchanged with the order ledger.
// Version is incremented on every successful mutation; the ledger's
// conditional write on Version is the only cross-request synchronization.
type Order struct {
	ID               string
	Status           OrderStatus
	RestaurantID     string
	CustomerID       string
	CourierID        *string
	TotalAmount      float64
	DeliveryFee      float64
	DeclaredDistance *float64
	PreferredVehicle VehicleType
	DeliveryAddress  string
	Items            []OrderItem

	PickupNotes     string
	DeliveryNotes   string
	ProofOfDelivery string
	RejectionReason string

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	AcceptedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	RejectedAt  *time.Time

	Version int64
}

// Assigned reports whether a courier currently holds the order.
func (o *Order) Assigned() bool {
	return o.CourierID != nil && *o.CourierID != ""
}

// AssignedTo reports whether the order is held by the given courier.
func (o *Order) AssignedTo(courierID string) bool {
	return o.Assigned() && *o.CourierID == courierID
}

// PickedUp reports the out_for_delivery substate after pickup.
func (o *Order) PickedUp() bool {
	return o.PickedUpAt != nil
}

// Claimable reports whether the order can still be claimed.
func (o *Order) Claimable() bool {
	return o.Status == StatusConfirmed && !o.Assigned()
}

// Validate checks the courier/status consistency invariant:
// a courier is set if and only if the order is out for delivery or delivered.
func (o *Order) Validate() error {
	requiresCourier := o.Status == StatusOutForDelivery || o.Status == StatusDelivered
	if o.Assigned() != requiresCourier {
		return apperr.ErrValidation
	}
	return nil
}

// Claim transitions confirmed -> out_for_delivery, assigning the courier
// and snapshotting the delivery fee advertised at claim time.
// The version increment here is provisional: it only becomes durable if
// the ledger accepts the conditional write against the pre-claim version.
func (o *Order) Claim(courierID string, fee float64, now time.Time) error {
	if strings.TrimSpace(courierID) == "" {
		return apperr.ErrValidation
	}
	if !o.Claimable() {
		return apperr.ErrOrderNotAvailable
	}
	o.Status = StatusOutForDelivery
	o.CourierID = &courierID
	o.DeliveryFee = fee
	o.AcceptedAt = &now
	o.Version++
	return nil
}

// MarkPickedUp stamps the picked_up substate. The order stays
// out_for_delivery; only the assigned courier may pick up, once.
func (o *Order) MarkPickedUp(courierID, notes string, now time.Time) error {
	if o.Status != StatusOutForDelivery {
		return apperr.ErrOrderNotAvailable
	}
	if !o.AssignedTo(courierID) {
		return apperr.ErrNotAssignedCourier
	}
	if o.PickedUp() {
		return apperr.ErrOrderNotAvailable
	}
	o.PickupNotes = notes
	o.PickedUpAt = &now
	o.Version++
	return nil
}

// Complete transitions out_for_delivery -> delivered. Requires the
// picked_up substate and the assigned courier.
func (o *Order) Complete(courierID, notes, proof string, now time.Time) error {
	if o.Status != StatusOutForDelivery {
		return apperr.ErrOrderNotAvailable
	}
	if !o.AssignedTo(courierID) {
		return apperr.ErrNotAssignedCourier
	}
	if !o.PickedUp() {
		return apperr.ErrOrderNotAvailable
	}
	o.Status = StatusDelivered
	o.DeliveryNotes = notes
	o.ProofOfDelivery = proof
	o.DeliveredAt = &now
	o.Version++
	return nil
}

// Reject records a mandatory reason. An assigned order returns to
// confirmed for another courier; an unassigned confirmed order is
// terminally rejected.
func (o *Order) Reject(courierID, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return apperr.ErrValidation
	}
	switch {
	case o.Status == StatusOutForDelivery:
		if !o.AssignedTo(courierID) {
			return apperr.ErrNotAssignedCourier
		}
		o.Status = StatusConfirmed
		o.CourierID = nil
		o.AcceptedAt = nil
		o.PickedUpAt = nil
		o.PickupNotes = ""
	case o.Status == StatusConfirmed && !o.Assigned():
		o.Status = StatusRejected
		o.RejectedAt = &now
	default:
		return apperr.ErrOrderNotAvailable
	}
	o.RejectionReason = reason
	o.Version++
	return nil
}

// Age returns how long ago the order was created.
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.CreatedAt)
}
