package request

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *TimeOffRequest) error
	FindAll(ctx context.Context, employeeID string) ([]TimeOffRequest, error)
	// FindByID locks the row FOR UPDATE when tx-bound so two actors
	// cannot finalize the same request concurrently.
	FindByID(ctx context.Context, id string) (*TimeOffRequest, error)
	Update(ctx context.Context, r *TimeOffRequest) error
	Delete(ctx context.Context, id string) error
	SumPendingDays(ctx context.Context, employeeID string, excludeID string) (decimal.Decimal, error)
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

func (r *repository) Create(ctx context.Context, req *TimeOffRequest) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO time_off_requests (
	id, employee_id, start_date, end_date, unit, hours_per_day,
	total_days, status, reason, created_by, breakdown_json
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '')::jsonb)
`, req.ID, req.EmployeeID, req.StartDate, req.EndDate, req.Unit, req.HoursPerDay,
			req.TotalDays, req.Status, req.Reason, req.CreatedBy, req.BreakdownJSON)
		return err
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindAll(ctx context.Context, employeeID string) ([]TimeOffRequest, error) {
	q := r.db.WithContext(ctx).Order("start_date DESC")
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	var reqs []TimeOffRequest
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*TimeOffRequest, error) {
	if r.tx != nil {
		return r.findByIDLocked(ctx, id)
	}
	var req TimeOffRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) findByIDLocked(ctx context.Context, id string) (*TimeOffRequest, error) {
	row := r.tx.QueryRowContext(ctx, `
SELECT id, employee_id, start_date, end_date, unit, hours_per_day,
	total_days, status, reason, created_by, approved_by::text, finalized_by::text,
	COALESCE(breakdown_json::text, ''), approved_at
FROM time_off_requests
WHERE id = $1
FOR UPDATE
`, id)

	var (
		req         TimeOffRequest
		approvedBy  sql.NullString
		finalizedBy sql.NullString
		approvedAt  sql.NullTime
	)
	err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.StartDate,
		&req.EndDate,
		&req.Unit,
		&req.HoursPerDay,
		&req.TotalDays,
		&req.Status,
		&req.Reason,
		&req.CreatedBy,
		&approvedBy,
		&finalizedBy,
		&req.BreakdownJSON,
		&approvedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	if approvedBy.Valid {
		if id, err := uuid.Parse(approvedBy.String); err == nil {
			req.ApprovedBy = &id
		}
	}
	if finalizedBy.Valid {
		if id, err := uuid.Parse(finalizedBy.String); err == nil {
			req.FinalizedBy = &id
		}
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		req.ApprovedAt = &t
	}
	return &req, nil
}

func (r *repository) Update(ctx context.Context, req *TimeOffRequest) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
UPDATE time_off_requests
SET start_date = $2, end_date = $3, unit = $4, hours_per_day = $5,
	total_days = $6, status = $7, reason = $8, approved_by = $9,
	finalized_by = $10, breakdown_json = NULLIF($11, '')::jsonb,
	approved_at = $12, updated_at = NOW()
WHERE id = $1
`, req.ID, req.StartDate, req.EndDate, req.Unit, req.HoursPerDay,
			req.TotalDays, req.Status, req.Reason, req.ApprovedBy,
			req.FinalizedBy, req.BreakdownJSON, req.ApprovedAt)
		return err
	}
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `DELETE FROM time_off_requests WHERE id = $1`, id)
		return err
	}
	return r.db.WithContext(ctx).Delete(&TimeOffRequest{}, "id = ?", id).Error
}

func (r *repository) SumPendingDays(ctx context.Context, employeeID string, excludeID string) (decimal.Decimal, error) {
	if r.tx != nil {
		var total decimal.Decimal
		err := r.tx.QueryRowContext(ctx, `
SELECT COALESCE(SUM(total_days), 0)
FROM time_off_requests
WHERE employee_id = $1
	AND status = $2
	AND ($3 = '' OR id::text <> $3)
`, employeeID, StatusPending, excludeID).Scan(&total)
		return total, err
	}

	q := r.db.WithContext(ctx).
		Model(&TimeOffRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusPending)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var out struct {
		Total decimal.Decimal
	}
	err := q.Select("COALESCE(SUM(total_days), 0) AS total").Scan(&out).Error
	return out.Total, err
}
