package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Record(ctx context.Context, employeeID *uuid.UUID, actor, action, entity string, payload any) error
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

func (r *repository) Record(ctx context.Context, employeeID *uuid.UUID, actor, action, entity string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if r.tx != nil {
		query := `
			INSERT INTO audit_logs (id, employee_id, actor, action, entity, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
		`
		_, err := r.tx.ExecContext(ctx, query, uuid.NewString(), employeeID, actor, action, entity, string(body))
		return err
	}

	return r.db.WithContext(ctx).Create(&Entry{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Actor:      actor,
		Action:     action,
		Entity:     entity,
		Payload:    string(body),
	}).Error
}
