package lot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sawa0358/hr-system-2025-sub003/internal/accrual"
	"github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig"
	"github.com/sawa0358/hr-system-2025-sub003/internal/audit"
	"github.com/sawa0358/hr-system-2025-sub003/internal/employee"
	employeeerrors "github.com/sawa0358/hr-system-2025-sub003/internal/employee/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/events"
	loterrors "github.com/sawa0358/hr-system-2025-sub003/internal/lot/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/messaging/kafka"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/contextutil"
)

//go:generate mockgen -source=lot_service.go -destination=mock/lot_service_mock.go -package=mock
type Service interface {
	// CreateLot grants the scheduled lot for the given grant date. A lot
	// that already exists for that date is returned as-is, so repeated
	// scheduler runs are harmless.
	CreateLot(ctx context.Context, employeeID string, grantDate time.Time) (LotResponse, error)
	Backfill(ctx context.Context, employeeID string, asOf time.Time) (BackfillResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LotResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	configs   accrualconfig.Service
	audit     audit.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	configs accrualconfig.Service,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("lot.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("lot.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		configs:   configs,
		audit:     auditRepo,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) CreateLot(ctx context.Context, employeeID string, grantDate time.Time) (LotResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return LotResponse{}, loterrors.ErrInvalidEmployeeID
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LotResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LotResponse{}, err
	}

	cfg, err := s.configs.Load(ctx, emp.ConfigVersion)
	if err != nil {
		return LotResponse{}, err
	}

	grantDate = accrual.DateOnly(grantDate)
	if !accrual.IsGrantDay(cfg, emp.JoinDate, grantDate) {
		return LotResponse{}, loterrors.ErrNotAGrantDay
	}

	l, _, err := s.grantOne(ctx, emp, cfg, grantDate)
	if err != nil {
		return LotResponse{}, err
	}
	return mapToResponse(*l), nil
}

// grantOne inserts the lot for one grant date and reports whether a new
// row was created. A duplicate grant resolves to the existing lot.
func (s *service) grantOne(ctx context.Context, emp *employee.Employee, cfg accrualconfig.Config, grantDate time.Time) (*GrantLot, bool, error) {
	weekly := 0
	if emp.WeeklyPattern != nil {
		weekly = *emp.WeeklyPattern
	}

	years := accrual.YearsOfService(emp.JoinDate, grantDate)
	// A table row may map a service step to zero days; that is "nothing
	// due", not an empty lot.
	days, ok := accrual.GrantDays(cfg, emp.VacationPattern, weekly, years)
	if !ok || !days.IsPositive() {
		return nil, false, loterrors.ErrNoGrantDue
	}

	l := &GrantLot{
		ID:            uuid.New(),
		EmployeeID:    emp.ID,
		GrantDate:     grantDate,
		DaysGranted:   days,
		DaysRemaining: days,
		ExpiryDate:    accrual.AddMonths(grantDate, cfg.ExpiryYears*12),
		ConfigVersion: cfg.Version,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("grant lot begin tx failed", zap.Error(err))
		return nil, false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, l); err != nil {
		if isUniqueViolation(err) {
			existing, ferr := s.repo.FindByEmployeeAndGrantDate(ctx, emp.ID.String(), grantDate)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		s.logger.Error("grant lot persist failed",
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
		return nil, false, err
	}

	empID := emp.ID
	if err := s.audit.WithTx(tx).Record(ctx, &empID, "system", "lot.granted", "grant_lot", map[string]any{
		"lot_id":       l.ID.String(),
		"grant_date":   grantDate.Format("2006-01-02"),
		"days_granted": days.String(),
	}); err != nil {
		s.logger.Error("grant lot audit failed", zap.Error(err))
		return nil, false, err
	}

	if s.outbox != nil {
		event := events.LotGrantedEvent{
			EventType:   events.LeaveLotGranted,
			LotID:       l.ID.String(),
			EmployeeID:  emp.ID.String(),
			GrantDate:   grantDate.Format("2006-01-02"),
			DaysGranted: days.String(),
			ExpiryDate:  l.ExpiryDate.Format("2006-01-02"),
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, false, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "grant_lot",
			AggregateID:   l.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LotGrantedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("grant lot outbox persist failed", zap.Error(err))
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("grant lot commit failed", zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("grant lot success",
		zap.String("employee_id", emp.ID.String()),
		zap.String("lot_id", l.ID.String()),
		zap.String("grant_date", grantDate.Format("2006-01-02")),
		zap.String("days_granted", days.String()),
	)
	return l, true, nil
}

func (s *service) Backfill(ctx context.Context, employeeID string, asOf time.Time) (BackfillResponse, error) {
	asOf = accrual.DateOnly(asOf)

	var emps []employee.Employee
	if employeeID != "" {
		emp, err := s.employees.FindByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return BackfillResponse{}, employeeerrors.ErrEmployeeNotFound
			}
			return BackfillResponse{}, err
		}
		emps = []employee.Employee{*emp}
	} else {
		var err error
		emps, err = s.employees.FindAllActive(ctx)
		if err != nil {
			return BackfillResponse{}, err
		}
	}

	resp := BackfillResponse{EmployeesChecked: len(emps)}
	for i := range emps {
		emp := &emps[i]

		cfg, err := s.configs.Load(ctx, emp.ConfigVersion)
		if err != nil {
			return resp, err
		}

		for _, d := range accrual.GrantDatesThrough(cfg, emp.JoinDate, asOf) {
			_, created, err := s.grantOne(ctx, emp, cfg, d)
			if err != nil {
				if errors.Is(err, loterrors.ErrNoGrantDue) {
					continue
				}
				return resp, err
			}
			if created {
				resp.LotsCreated++
			}
		}
	}

	s.logger.Info("backfill lots finished",
		zap.Int("employees_checked", resp.EmployeesChecked),
		zap.Int("lots_created", resp.LotsCreated),
	)
	return resp, nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LotResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, loterrors.ErrInvalidEmployeeID
	}

	lots, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]LotResponse, len(lots))
	for i, l := range lots {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(l GrantLot) LotResponse {
	return LotResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		GrantDate:     l.GrantDate.Format("2006-01-02"),
		DaysGranted:   l.DaysGranted,
		DaysRemaining: l.DaysRemaining,
		ExpiryDate:    l.ExpiryDate.Format("2006-01-02"),
		ConfigVersion: l.ConfigVersion,
	}
}
