package courier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

// Service owns courier profiles: onboarding, vehicle details,
// availability, location, and delivery stats. Availability and location
// changes are mirrored to the identity collaborator best-effort.
type Service struct {
	drivers          driverRepository
	earnings         earningsReader
	identity         identityPusher
	operationTimeout time.Duration
	pushTimeout      time.Duration
	logger           logx.Logger
	now              func() time.Time
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService - creates a new courier Service.
func NewService(
	drivers driverRepository,
	earnings earningsReader,
	identity identityPusher,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		drivers:          drivers,
		earnings:         earnings,
		identity:         identity,
		operationTimeout: timeout,
		pushTimeout:      5 * time.Second,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// OnboardInput carries a new courier profile.
type OnboardInput struct {
	CourierID             string
	Phone                 string
	LicenseNumber         string
	VehicleType           domain.VehicleType
	VehicleMake           string
	VehicleModel          string
	VehicleYear           int
	LicensePlate          string
	InsuranceNumber       string
	EmergencyContactName  string
	EmergencyContactPhone string
}

// Onboard registers a courier profile in pending_verification with
// availability off. Motorized vehicles need full vehicle and insurance
// details before the profile is accepted.
func (s *Service) Onboard(ctx context.Context, in OnboardInput) (*domain.Driver, error) {
	if err := validateOnboard(in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d := &domain.Driver{
		ID:                    strings.TrimSpace(in.CourierID),
		Phone:                 in.Phone,
		LicenseNumber:         in.LicenseNumber,
		VehicleType:           in.VehicleType,
		VehicleMake:           in.VehicleMake,
		VehicleModel:          in.VehicleModel,
		VehicleYear:           in.VehicleYear,
		LicensePlate:          in.LicensePlate,
		InsuranceNumber:       in.InsuranceNumber,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
		Status:                domain.DriverPendingVerification,
		IsAvailable:           false,
	}
	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("driver onboarded",
		logx.String("event", "driver_onboarded"),
		logx.String("courier_id", d.ID),
		logx.String("vehicle_type", string(d.VehicleType)),
	)
	return d, nil
}

func validateOnboard(in OnboardInput) error {
	if strings.TrimSpace(in.CourierID) == "" {
		return fmt.Errorf("courier id is required: %w", apperr.ErrValidation)
	}
	if !domain.ValidatePhone(in.Phone) {
		return fmt.Errorf("invalid phone %q: %w", in.Phone, apperr.ErrValidation)
	}
	if strings.TrimSpace(in.LicenseNumber) == "" {
		return fmt.Errorf("license number is required: %w", apperr.ErrValidation)
	}
	if !in.VehicleType.Valid() {
		return fmt.Errorf("unknown vehicle type %q: %w", in.VehicleType, apperr.ErrValidation)
	}
	if motorized(in.VehicleType) {
		switch {
		case strings.TrimSpace(in.VehicleMake) == "",
			strings.TrimSpace(in.VehicleModel) == "",
			in.VehicleYear == 0,
			strings.TrimSpace(in.LicensePlate) == "",
			strings.TrimSpace(in.InsuranceNumber) == "":
			return fmt.Errorf("motorized vehicle needs make, model, year, plate, and insurance: %w", apperr.ErrValidation)
		}
	}
	if in.EmergencyContactPhone != "" && !domain.ValidatePhone(in.EmergencyContactPhone) {
		return fmt.Errorf("invalid emergency contact phone: %w", apperr.ErrValidation)
	}
	return nil
}

func motorized(v domain.VehicleType) bool {
	return v == domain.VehicleScooter || v == domain.VehicleCar || v == domain.VehicleTruck
}

// Get returns one courier profile.
func (s *Service) Get(ctx context.Context, courierID string) (*domain.Driver, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.drivers.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// Update applies a partial profile update and returns the fresh profile.
func (s *Service) Update(ctx context.Context, u domain.PartialDriverUpdate) (*domain.Driver, error) {
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return nil, fmt.Errorf("invalid phone %q: %w", *u.Phone, apperr.ErrValidation)
	}
	if u.EmergencyContactPhone != nil && !domain.ValidatePhone(*u.EmergencyContactPhone) {
		return nil, fmt.Errorf("invalid emergency contact phone: %w", apperr.ErrValidation)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.drivers.UpdatePartial(ctx, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return s.Get(ctx, u.ID)
}

// SetAvailability flips the courier's availability. Only verified
// couriers can switch on; anyone can switch off.
func (s *Service) SetAvailability(ctx context.Context, courierID string, available bool) (*domain.Driver, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.drivers.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	if available && d.Status != domain.DriverVerified {
		return nil, fmt.Errorf("courier %s is not verified: %w", courierID, apperr.ErrNotAvailable)
	}

	if _, err := s.drivers.SetAvailability(ctx, courierID, available); err != nil {
		return nil, err
	}
	d.IsAvailable = available

	go s.pushAvailability(courierID, available)

	s.logger.Info("availability changed",
		logx.String("event", "availability_changed"),
		logx.String("courier_id", courierID),
		logx.Bool("is_available", available),
	)
	return d, nil
}

// UpdateLocation stores the courier's reported position.
func (s *Service) UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (*domain.Location, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("coordinates out of range: %w", apperr.ErrValidation)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	at := s.now()
	ok, err := s.drivers.UpdateLocation(ctx, courierID, lat, lng, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}

	go s.pushLocation(courierID, lat, lng)

	return &domain.Location{Latitude: lat, Longitude: lng, UpdatedAt: at}, nil
}

// Stats returns the courier's delivery and earnings aggregate.
func (s *Service) Stats(ctx context.Context, courierID string) (*domain.DriverStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.drivers.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return s.earnings.Stats(ctx, courierID)
}

const (
	defaultEarningsLimit = 20
	maxEarningsLimit     = 100
)

// Earnings returns the courier's recorded payouts, newest first.
func (s *Service) Earnings(ctx context.Context, courierID string, limit int) ([]domain.Earning, error) {
	if limit < 1 {
		limit = defaultEarningsLimit
	}
	if limit > maxEarningsLimit {
		limit = maxEarningsLimit
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.drivers.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return s.earnings.List(ctx, courierID, limit)
}

func (s *Service) pushAvailability(courierID string, available bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
	defer cancel()

	if err := s.identity.PushAvailability(ctx, courierID, available); err != nil {
		s.logger.Warn("availability push failed",
			logx.String("courier_id", courierID),
			logx.Err(err),
		)
	}
}

func (s *Service) pushLocation(courierID string, lat, lng float64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
	defer cancel()

	if err := s.identity.PushLocation(ctx, courierID, lat, lng); err != nil {
		s.logger.Warn("location push failed",
			logx.String("courier_id", courierID),
			logx.Err(err),
		)
	}
}
