package domain

import (
	"regexp"
	"time"
)

// DriverStatus represents the verification status of a driver profile.
type DriverStatus string

// List of possible driver statuses
const (
	DriverPendingVerification DriverStatus = "pending_verification"
	DriverVerified            DriverStatus = "verified"
	DriverSuspended           DriverStatus = "suspended"
)

var allowedDriverStatuses = [...]DriverStatus{
	DriverPendingVerification, DriverVerified, DriverSuspended,
}

// Valid checks if the DriverStatus is valid
func (s DriverStatus) Valid() bool {
	for _, v := range allowedDriverStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Location is a courier's last reported position.
type Location struct {
	Latitude  float64
	Longitude float64
	UpdatedAt time.Time
}

// Driver represents a courier profile owned by this service.
type Driver struct {
	ID                    string
	Phone                 string
	LicenseNumber         string
	VehicleType           VehicleType
	VehicleMake           string
	VehicleModel          string
	VehicleYear           int
	LicensePlate          string
	InsuranceNumber       string
	EmergencyContactName  string
	EmergencyContactPhone string
	Status                DriverStatus
	IsAvailable           bool
	Location              *Location
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// PartialDriverUpdate carries optional fields to update a driver profile.
// A nil field means "do not change" that attribute.
type PartialDriverUpdate struct {
	ID                    string
	Phone                 *string
	VehicleMake           *string
	VehicleModel          *string
	VehicleYear           *int
	EmergencyContactName  *string
	EmergencyContactPhone *string
}

// DriverStats is the per-courier delivery and earnings aggregate.
type DriverStats struct {
	TotalDeliveries int64
	TotalEarnings   float64
	LastDeliveredAt *time.Time
}

// Earning is one payout record for a completed delivery.
type Earning struct {
	CourierID   string
	OrderID     string
	Fee         float64
	DeliveredAt time.Time
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
