package handlers

import "time"

type orderResponse struct {
	ID               string     `json:"id"`
	Status           string     `json:"status"`
	RestaurantID     string     `json:"restaurant_id"`
	CustomerID       string     `json:"customer_id"`
	CourierID        *string    `json:"courier_id"`
	TotalAmount      float64    `json:"total_amount"`
	DeliveryFee      float64    `json:"delivery_fee"`
	DeliveryAddress  string     `json:"delivery_address"`
	Items            []itemDTO  `json:"items,omitempty"`
	PickupNotes      string     `json:"pickup_notes,omitempty"`
	DeliveryNotes    string     `json:"delivery_notes,omitempty"`
	ProofOfDelivery  string     `json:"proof_of_delivery,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
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

type quoteResponse struct {
	DeliveryFee         float64 `json:"delivery_fee"`
	DistanceKm          float64 `json:"distance_km"`
	Priority            string  `json:"priority"`
	EstimatedMinutesMin int     `json:"estimated_minutes_min"`
	EstimatedMinutesMax int     `json:"estimated_minutes_max"`
	VehicleType         string  `json:"vehicle_type"`
}

type restaurantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CuisineType string `json:"cuisine_type,omitempty"`
}

type enrichedOrderResponse struct {
	Order      orderResponse       `json:"order"`
	Restaurant *restaurantResponse `json:"restaurant"`
	Quote      quoteResponse       `json:"quote"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type listResponse struct {
	Items      []enrichedOrderResponse `json:"items"`
	Pagination paginationResponse      `json:"pagination"`
}

type pickupRequest struct {
	PickupNotes string `json:"pickup_notes"`
}

type completeRequest struct {
	DeliveryNotes   string `json:"delivery_notes"`
	ProofOfDelivery string `json:"proof_of_delivery"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type onboardRequest struct {
	Phone                 string `json:"phone"`
	LicenseNumber         string `json:"license_number"`
	VehicleType           string `json:"vehicle_type"`
	VehicleMake           string `json:"vehicle_make,omitempty"`
	VehicleModel          string `json:"vehicle_model,omitempty"`
	VehicleYear           int    `json:"vehicle_year,omitempty"`
	LicensePlate          string `json:"license_plate,omitempty"`
	InsuranceNumber       string `json:"insurance_number,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
}

type updateProfileRequest struct {
	Phone                 *string `json:"phone"`
	VehicleMake           *string `json:"vehicle_make"`
	VehicleModel          *string `json:"vehicle_model"`
	VehicleYear           *int    `json:"vehicle_year"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

type availabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type driverResponse struct {
	ID                    string            `json:"id"`
	Phone                 string            `json:"phone"`
	LicenseNumber         string            `json:"license_number"`
	VehicleType           string            `json:"vehicle_type"`
	VehicleMake           string            `json:"vehicle_make,omitempty"`
	VehicleModel          string            `json:"vehicle_model,omitempty"`
	VehicleYear           int               `json:"vehicle_year,omitempty"`
	LicensePlate          string            `json:"license_plate,omitempty"`
	InsuranceNumber       string            `json:"insurance_number,omitempty"`
	EmergencyContactName  string            `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string            `json:"emergency_contact_phone,omitempty"`
	Status                string            `json:"status"`
	IsAvailable           bool              `json:"is_available"`
	Location              *locationResponse `json:"location,omitempty"`
}

type locationResponse struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

type statsResponse struct {
	TotalDeliveries int64      `json:"total_deliveries"`
	TotalEarnings   float64    `json:"total_earnings"`
	LastDeliveredAt *time.Time `json:"last_delivered_at"`
}

type earningResponse struct {
	OrderID     string    `json:"order_id"`
	Fee         float64   `json:"delivery_fee"`
	DeliveredAt time.Time `json:"delivered_at"`
}
