package accrualconfig

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=accrualconfig_repo.go -destination=mock/accrualconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByVersion(ctx context.Context, version string) (*AccrualConfig, error)
	FindActive(ctx context.Context) (*AccrualConfig, error)
	FindAll(ctx context.Context) ([]AccrualConfig, error)
	Upsert(ctx context.Context, c *AccrualConfig) error
	DeactivateAll(ctx context.Context) error
	Activate(ctx context.Context, version string) error
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

func (r *repository) FindByVersion(ctx context.Context, version string) (*AccrualConfig, error) {
	var c AccrualConfig
	err := r.db.WithContext(ctx).First(&c, "version = ?", version).Error
	return &c, err
}

func (r *repository) FindActive(ctx context.Context) (*AccrualConfig, error) {
	var c AccrualConfig
	err := r.db.WithContext(ctx).First(&c, "is_active = ?", true).Error
	return &c, err
}

func (r *repository) FindAll(ctx context.Context) ([]AccrualConfig, error) {
	var configs []AccrualConfig
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) Upsert(ctx context.Context, c *AccrualConfig) error {
	// New versions land inactive; activation stays a separate step.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_json", "updated_at"}),
	}).Create(c).Error
}

func (r *repository) DeactivateAll(ctx context.Context) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `UPDATE accrual_configs SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE`)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&AccrualConfig{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *repository) Activate(ctx context.Context, version string) error {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `UPDATE accrual_configs SET is_active = TRUE, updated_at = NOW() WHERE version = $1`, version)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&AccrualConfig{}).
		Where("version = ?", version).
		Update("is_active", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
