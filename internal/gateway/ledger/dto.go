package ledger

import (
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

type orderDTO struct {
	ID               string     `json:"id"`
	Status           string     `json:"status"`
	RestaurantID     string     `json:"restaurant_id"`
	CustomerID       string     `json:"customer_id"`
	CourierID        *string    `json:"courier_id,omitempty"`
	TotalAmount      float64    `json:"total_amount"`
	DeliveryFee      float64    `json:"delivery_fee"`
	DeclaredDistance *float64   `json:"declared_distance,omitempty"`
	PreferredVehicle string     `json:"preferred_vehicle,omitempty"`
	DeliveryAddress  string     `json:"delivery_address"`
	Items            []itemDTO  `json:"items,omitempty"`
	PickupNotes      string     `json:"pickup_notes,omitempty"`
	DeliveryNotes    string     `json:"delivery_notes,omitempty"`
	ProofOfDelivery  string     `json:"proof_of_delivery,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	PickedUpAt       *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	Version          int64      `json:"version"`
}

type itemDTO struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type conditionalUpdateDTO struct {
	Order           orderDTO `json:"order"`
	ExpectedVersion int64    `json:"expected_version"`
}

func toWire(o *domain.Order) orderDTO {
	items := make([]itemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDTO{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return orderDTO{
		ID:               o.ID,
		Status:           string(o.Status),
		RestaurantID:     o.RestaurantID,
		CustomerID:       o.CustomerID,
		CourierID:        o.CourierID,
		TotalAmount:      o.TotalAmount,
		DeliveryFee:      o.DeliveryFee,
		DeclaredDistance: o.DeclaredDistance,
		PreferredVehicle: string(o.PreferredVehicle),
		DeliveryAddress:  o.DeliveryAddress,
		Items:            items,
		PickupNotes:      o.PickupNotes,
		DeliveryNotes:    o.DeliveryNotes,
		ProofOfDelivery:  o.ProofOfDelivery,
		RejectionReason:  o.RejectionReason,
		CreatedAt:        o.CreatedAt,
		ConfirmedAt:      o.ConfirmedAt,
		AcceptedAt:       o.AcceptedAt,
		PickedUpAt:       o.PickedUpAt,
		DeliveredAt:      o.DeliveredAt,
		RejectedAt:       o.RejectedAt,
		Version:          o.Version,
	}
}

func (d orderDTO) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return domain.Order{
		ID:               d.ID,
		Status:           domain.OrderStatus(d.Status),
		RestaurantID:     d.RestaurantID,
		CustomerID:       d.CustomerID,
		CourierID:        d.CourierID,
		TotalAmount:      d.TotalAmount,
		DeliveryFee:      d.DeliveryFee,
		DeclaredDistance: d.DeclaredDistance,
		PreferredVehicle: domain.VehicleType(d.PreferredVehicle),
		DeliveryAddress:  d.DeliveryAddress,
		Items:            items,
		PickupNotes:      d.PickupNotes,
		DeliveryNotes:    d.DeliveryNotes,
		ProofOfDelivery:  d.ProofOfDelivery,
		RejectionReason:  d.RejectionReason,
		CreatedAt:        d.CreatedAt,
		ConfirmedAt:      d.ConfirmedAt,
		AcceptedAt:       d.AcceptedAt,
		PickedUpAt:       d.PickedUpAt,
		DeliveredAt:      d.DeliveredAt,
		RejectedAt:       d.RejectedAt,
		Version:          d.Version,
	}
}
