package accrualconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	accrualconfigerrors "github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig/errors"
)

//go:generate mockgen -source=accrualconfig_service.go -destination=mock/accrualconfig_service_mock.go -package=mock
type Service interface {
	// Load resolves a config by version, falling back to the active
	// config, then to the built-in default.
	Load(ctx context.Context, version string) (Config, error)
	Save(ctx context.Context, cfg Config) (Config, error)
	Activate(ctx context.Context, version string) error
	ActiveVersion(ctx context.Context) (string, error)
	List(ctx context.Context) ([]ConfigSummary, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("accrualconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accrualconfig.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Load(ctx context.Context, version string) (Config, error) {
	if version != "" {
		row, err := s.repo.FindByVersion(ctx, version)
		if err == nil {
			return decodeConfig(row)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Config{}, err
		}
		s.logger.Warn("config version not found, falling back to active",
			zap.String("version", version),
		)
	}

	row, err := s.repo.FindActive(ctx)
	if err == nil {
		return decodeConfig(row)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Config{}, err
	}

	return DefaultConfig(), nil
}

func (s *service) Save(ctx context.Context, cfg Config) (Config, error) {
	if err := validateConfig(cfg); err != nil {
		s.logger.Warn("save config validation failed", zap.Error(err))
		return Config{}, err
	}

	normalizeConfig(&cfg)

	raw, err := json.Marshal(cfg)
	if err != nil {
		return Config{}, err
	}

	row := &AccrualConfig{
		Version:    cfg.Version,
		ConfigJSON: string(raw),
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		s.logger.Error("save config persist failed",
			zap.String("version", cfg.Version),
			zap.Error(err),
		)
		return Config{}, err
	}

	s.logger.Info("save config success", zap.String("version", cfg.Version))
	return cfg, nil
}

func (s *service) Activate(ctx context.Context, version string) error {
	if version == "" {
		return accrualconfigerrors.ErrVersionRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("activate config begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.DeactivateAll(ctx); err != nil {
		s.logger.Error("activate config deactivate failed", zap.Error(err))
		return err
	}
	if err := qtx.Activate(ctx, version); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return accrualconfigerrors.ErrConfigNotFound
		}
		s.logger.Error("activate config failed",
			zap.String("version", version),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("activate config commit failed", zap.Error(err))
		return err
	}
	s.logger.Info("activate config success", zap.String("version", version))
	return nil
}

func (s *service) ActiveVersion(ctx context.Context) (string, error) {
	row, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.Version, nil
}

func (s *service) List(ctx context.Context) ([]ConfigSummary, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ConfigSummary, len(rows))
	for i, row := range rows {
		out[i] = ConfigSummary{
			Version:   row.Version,
			IsActive:  row.IsActive,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return out, nil
}

func decodeConfig(row *AccrualConfig) (Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(row.ConfigJSON), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.Version == "" {
		return accrualconfigerrors.ErrVersionRequired
	}
	if cfg.InitialMonths <= 0 || cfg.IntervalMonths <= 0 {
		return accrualconfigerrors.ErrInvalidSchedule
	}
	if len(cfg.FullTimeTable) == 0 {
		return accrualconfigerrors.ErrEmptyGrantTable
	}
	if err := validateGrantRows(cfg.FullTimeTable); err != nil {
		return err
	}
	for _, pt := range cfg.PartTimeTables {
		if pt.WeeklyPattern < 1 || pt.WeeklyPattern > 4 {
			return accrualconfigerrors.ErrInvalidWeeklyPattern
		}
		if len(pt.Grants) == 0 {
			return accrualconfigerrors.ErrEmptyGrantTable
		}
		if err := validateGrantRows(pt.Grants); err != nil {
			return err
		}
	}
	return nil
}

func validateGrantRows(rows []GrantRow) error {
	for _, row := range rows {
		if row.Years < 0 || row.Days < 0 {
			return accrualconfigerrors.ErrInvalidGrantTable
		}
	}
	return nil
}

// normalizeConfig sorts grant tables ascending by service years so
// lookups can rely on the order.
func normalizeConfig(cfg *Config) {
	sort.Slice(cfg.FullTimeTable, func(i, j int) bool {
		return cfg.FullTimeTable[i].Years < cfg.FullTimeTable[j].Years
	})
	for k := range cfg.PartTimeTables {
		grants := cfg.PartTimeTables[k].Grants
		sort.Slice(grants, func(i, j int) bool {
			return grants[i].Years < grants[j].Years
		})
	}
	sort.Slice(cfg.PartTimeTables, func(i, j int) bool {
		return cfg.PartTimeTables[i].WeeklyPattern < cfg.PartTimeTables[j].WeeklyPattern
	})
}
