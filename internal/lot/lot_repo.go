package lot

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loterrors "github.com/sawa0358/hr-system-2025-sub003/internal/lot/errors"
)

//go:generate mockgen -source=lot_repo.go -destination=mock/lot_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *GrantLot) error
	FindAllByEmployee(ctx context.Context, employeeID string) ([]GrantLot, error)
	FindByEmployeeAndGrantDate(ctx context.Context, employeeID string, grantDate time.Time) (*GrantLot, error)
	// ValidLots returns lots with days remaining that have not expired
	// as of the given day, newest grant first. Inside a transaction the
	// rows are locked FOR UPDATE so concurrent consumers serialize.
	ValidLots(ctx context.Context, employeeID string, asOf time.Time) ([]GrantLot, error)
	AdjustRemaining(ctx context.Context, lotID string, delta decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *GrantLot) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO grant_lots (id, employee_id, grant_date, days_granted, days_remaining, expiry_date, config_version)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, l.ID, l.EmployeeID, l.GrantDate, l.DaysGranted, l.DaysRemaining, l.ExpiryDate, l.ConfigVersion)
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]GrantLot, error) {
	var lots []GrantLot
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("grant_date DESC").
		Find(&lots).Error
	return lots, err
}

func (r *repository) FindByEmployeeAndGrantDate(ctx context.Context, employeeID string, grantDate time.Time) (*GrantLot, error) {
	var l GrantLot
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&l, "grant_date = ?", grantDate).Error
	return &l, err
}

func (r *repository) ValidLots(ctx context.Context, employeeID string, asOf time.Time) ([]GrantLot, error) {
	if r.tx != nil {
		return r.validLotsLocked(ctx, employeeID, asOf)
	}

	var lots []GrantLot
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("days_remaining > 0").
		Where("expiry_date >= ?", asOf).
		Order("grant_date DESC").
		Find(&lots).Error
	return lots, err
}

func (r *repository) validLotsLocked(ctx context.Context, employeeID string, asOf time.Time) ([]GrantLot, error) {
	rows, err := r.tx.QueryContext(ctx, `
SELECT id, employee_id, grant_date, days_granted, days_remaining, expiry_date, config_version
FROM grant_lots
WHERE employee_id = $1
	AND days_remaining > 0
	AND expiry_date >= $2
ORDER BY grant_date DESC
FOR UPDATE
`, employeeID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []GrantLot
	for rows.Next() {
		var l GrantLot
		if err := rows.Scan(
			&l.ID,
			&l.EmployeeID,
			&l.GrantDate,
			&l.DaysGranted,
			&l.DaysRemaining,
			&l.ExpiryDate,
			&l.ConfigVersion,
		); err != nil {
			return nil, err
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

// AdjustRemaining fails with ErrLotNotFound when no row matches: a
// consumption row must never point at a lot that is gone.
func (r *repository) AdjustRemaining(ctx context.Context, lotID string, delta decimal.Decimal) error {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
UPDATE grant_lots
SET days_remaining = days_remaining + $2, updated_at = NOW()
WHERE id = $1
`, lotID, delta)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return loterrors.ErrLotNotFound
		}
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&GrantLot{}).
		Where("id = ?", lotID).
		Updates(map[string]interface{}{
			"days_remaining": gorm.Expr("days_remaining + ?", delta),
			"updated_at":     clause.Expr{SQL: "NOW()"},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loterrors.ErrLotNotFound
	}
	return nil
}
