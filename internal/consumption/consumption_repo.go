package consumption

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LotAllocation is the per-lot total a request drew, reassembled from
// the per-day rows.
type LotAllocation struct {
	LotID uuid.UUID
	Days  decimal.Decimal
}

//go:generate mockgen -source=consumption_repo.go -destination=mock/consumption_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, rows []Consumption) error
	FindByRequest(ctx context.Context, requestID string) ([]Consumption, error)
	AllocationsByRequest(ctx context.Context, requestID string) ([]LotAllocation, error)
	DeleteByRequest(ctx context.Context, requestID string) error
	SumByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
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

func (r *repository) CreateBatch(ctx context.Context, rows []Consumption) error {
	if len(rows) == 0 {
		return nil
	}
	if r.tx != nil {
		stmt, err := r.tx.PrepareContext(ctx, `
INSERT INTO consumptions (id, employee_id, request_id, lot_id, date, days_used)
VALUES ($1, $2, $3, $4, $5, $6)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.ID, row.EmployeeID, row.RequestID, row.LotID, row.Date, row.DaysUsed); err != nil {
				return err
			}
		}
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) FindByRequest(ctx context.Context, requestID string) ([]Consumption, error) {
	var rows []Consumption
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) AllocationsByRequest(ctx context.Context, requestID string) ([]LotAllocation, error) {
	if r.tx != nil {
		rows, err := r.tx.QueryContext(ctx, `
SELECT lot_id, SUM(days_used)
FROM consumptions
WHERE request_id = $1
GROUP BY lot_id
`, requestID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var allocs []LotAllocation
		for rows.Next() {
			var a LotAllocation
			if err := rows.Scan(&a.LotID, &a.Days); err != nil {
				return nil, err
			}
			allocs = append(allocs, a)
		}
		return allocs, rows.Err()
	}

	var allocs []LotAllocation
	err := r.db.WithContext(ctx).
		Model(&Consumption{}).
		Select("lot_id, SUM(days_used) AS days").
		Where("request_id = ?", requestID).
		Group("lot_id").
		Scan(&allocs).Error
	return allocs, err
}

func (r *repository) DeleteByRequest(ctx context.Context, requestID string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `DELETE FROM consumptions WHERE request_id = $1`, requestID)
		return err
	}
	return r.db.WithContext(ctx).
		Delete(&Consumption{}, "request_id = ?", requestID).Error
}

func (r *repository) SumByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&Consumption{}).
		Select("COALESCE(SUM(days_used), 0) AS total").
		Where("employee_id = ?", employeeID).
		Where("date >= ? AND date < ?", from, to).
		Scan(&out).Error
	return out.Total, err
}
