package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

// EarningsRepo represents the payout ledger for completed deliveries.
type EarningsRepo struct{ db *pgxpool.Pool }

// NewEarningsRepo creates a new EarningsRepo.
func NewEarningsRepo(db *pgxpool.Pool) *EarningsRepo { return &EarningsRepo{db: db} }

// Record inserts a payout row for a delivered order. The unique index on
// (courier_id, order_id) makes the insert idempotent: replaying the same
// delivery event records nothing and returns false.
func (r *EarningsRepo) Record(ctx context.Context, e domain.Earning) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        INSERT INTO earnings(courier_id, order_id, fee, delivered_at)
        VALUES($1,$2,$3,$4)
        ON CONFLICT (courier_id, order_id) DO NOTHING
    `, e.CourierID, e.OrderID, e.Fee, e.DeliveredAt)
	if err != nil {
		return false, fmt.Errorf("record earning for order %s: %w", e.OrderID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Stats aggregates deliveries and earnings for one courier.
func (r *EarningsRepo) Stats(ctx context.Context, courierID string) (*domain.DriverStats, error) {
	var s domain.DriverStats
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(fee), 0), MAX(delivered_at)
        FROM earnings WHERE courier_id=$1
    `, courierID).Scan(&s.TotalDeliveries, &s.TotalEarnings, &s.LastDeliveredAt)
	if err != nil {
		return nil, fmt.Errorf("stats for courier %s: %w", courierID, err)
	}
	return &s, nil
}

// List returns a courier's payout rows, newest first.
func (r *EarningsRepo) List(ctx context.Context, courierID string, limit int) ([]domain.Earning, error) {
	rows, err := r.db.Query(ctx, `
        SELECT courier_id, order_id, fee, delivered_at
        FROM earnings WHERE courier_id=$1
        ORDER BY delivered_at DESC
        LIMIT $2
    `, courierID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Earning, 0, limit)
	for rows.Next() {
		var e domain.Earning
		if err := rows.Scan(&e.CourierID, &e.OrderID, &e.Fee, &e.DeliveredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
