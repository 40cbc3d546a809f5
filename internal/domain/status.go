package domain

type (
	// OrderStatus represents the lifecycle state of an order.
	OrderStatus string
	// VehicleType represents the vehicle a courier delivers with.
	VehicleType string
	// Priority represents order urgency, derived from order age.
	Priority string
)

// List of possible order statuses
const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
)

// List of possible vehicle types
const (
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
	VehicleCar     VehicleType = "car"
	VehicleTruck   VehicleType = "truck"
)

// List of possible priorities
const (
	PriorityNormal Priority = "normal"
	PriorityBusy   Priority = "busy"
	PriorityPeak   Priority = "peak"
	PriorityUrgent Priority = "urgent"
)

var allowedStatuses = [...]OrderStatus{
	StatusPending, StatusConfirmed, StatusOutForDelivery,
	StatusDelivered, StatusCancelled, StatusRejected,
}

var allowedVehicleTypes = [...]VehicleType{
	VehicleBike, VehicleScooter, VehicleCar, VehicleTruck,
}

var allowedPriorities = [...]Priority{
	PriorityNormal, PriorityBusy, PriorityPeak, PriorityUrgent,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the transition s -> to is legal.
// The table is closed: anything not listed is illegal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusOutForDelivery || to == StatusCancelled || to == StatusRejected
	case StatusOutForDelivery:
		return to == StatusDelivered || to == StatusConfirmed || to == StatusCancelled
	case StatusDelivered, StatusCancelled, StatusRejected:
		return false
	default:
		return false
	}
}

// Valid checks if the VehicleType is valid
func (t VehicleType) Valid() bool {
	for _, v := range allowedVehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Valid checks if the Priority is valid
func (p Priority) Valid() bool {
	for _, v := range allowedPriorities {
		if p == v {
			return true
		}
	}
	return false
}
