package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

// DriverRepo represents the courier profile repository.
type DriverRepo struct{ db *pgxpool.Pool }

// NewDriverRepo creates a new DriverRepo.
func NewDriverRepo(db *pgxpool.Pool) *DriverRepo { return &DriverRepo{db: db} }

const driverColumns = `id, phone, license_number, vehicle_type, vehicle_make,
	vehicle_model, vehicle_year, license_plate, insurance_number,
	emergency_contact_name, emergency_contact_phone, status, is_available,
	latitude, longitude, location_updated_at, created_at, updated_at`

// Get - returns a driver profile by courier ID.
func (r *DriverRepo) Get(ctx context.Context, id string) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id=$1`, id)

	d, err := scanDriver(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver %s: %w", id, err)
	}
	return d, nil
}

// Create - creates a new driver profile.
func (r *DriverRepo) Create(ctx context.Context, d *domain.Driver) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO drivers(
            id, phone, license_number, vehicle_type, vehicle_make,
            vehicle_model, vehicle_year, license_plate, insurance_number,
            emergency_contact_name, emergency_contact_phone, status, is_available
        ) VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		d.ID, d.Phone, d.LicenseNumber, d.VehicleType, d.VehicleMake,
		d.VehicleModel, d.VehicleYear, d.LicensePlate, d.InsuranceNumber,
		d.EmergencyContactName, d.EmergencyContactPhone, d.Status, d.IsAvailable)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("create driver %s: %w", d.ID, err)
	}
	return nil
}

// UpdatePartial applies a partial update to a driver profile and returns true if a row was affected.
func (r *DriverRepo) UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE drivers
        SET
            phone                   = COALESCE($2, phone),
            vehicle_make            = COALESCE($3, vehicle_make),
            vehicle_model           = COALESCE($4, vehicle_model),
            vehicle_year            = COALESCE($5, vehicle_year),
            emergency_contact_name  = COALESCE($6, emergency_contact_name),
            emergency_contact_phone = COALESCE($7, emergency_contact_phone),
            updated_at              = now()
        WHERE id = $1
    `, u.ID, u.Phone, u.VehicleMake, u.VehicleModel, u.VehicleYear,
		u.EmergencyContactName, u.EmergencyContactPhone)

	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("update driver %s: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetAvailability flips the availability flag and returns true if a row was affected.
func (r *DriverRepo) SetAvailability(ctx context.Context, id string, available bool) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE drivers SET is_available=$2, updated_at=now() WHERE id=$1
    `, id, available)
	if err != nil {
		return false, fmt.Errorf("set availability for driver %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateLocation stores the last reported position and returns true if a row was affected.
func (r *DriverRepo) UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE drivers
        SET latitude=$2, longitude=$3, location_updated_at=$4, updated_at=now()
        WHERE id=$1
    `, id, lat, lng, at)
	if err != nil {
		return false, fmt.Errorf("update location for driver %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

type driverRow interface {
	Scan(dest ...any) error
}

func scanDriver(row driverRow) (*domain.Driver, error) {
	var (
		d         domain.Driver
		lat, lng  *float64
		locatedAt *time.Time
	)
	err := row.Scan(
		&d.ID, &d.Phone, &d.LicenseNumber, &d.VehicleType, &d.VehicleMake,
		&d.VehicleModel, &d.VehicleYear, &d.LicensePlate, &d.InsuranceNumber,
		&d.EmergencyContactName, &d.EmergencyContactPhone, &d.Status, &d.IsAvailable,
		&lat, &lng, &locatedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		d.Location = &domain.Location{Latitude: *lat, Longitude: *lng}
		if locatedAt != nil {
			d.Location.UpdatedAt = *locatedAt
		}
	}
	return &d, nil
}
