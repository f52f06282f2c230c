package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	employeeerrors "github.com/sawa0358/hr-system-2025-sub003/internal/employee/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/contextutil"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/counter"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("vacation_pattern", req.VacationPattern),
	)

	pattern, weeklyPattern, err := parseVacationPattern(req.VacationPattern)
	if err != nil {
		return EmployeeResponse{}, err
	}

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		s.logger.Warn("create employee invalid join_date",
			zap.String("join_date", req.JoinDate),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
	if err != nil {
		s.logger.Error("create employee generate number failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}

	empl := &Employee{
		ID:              uuid.New(),
		EmployeeNumber:  fmt.Sprintf("EMP-%06d", nextVal),
		FullName:        req.FullName,
		Email:           req.Email,
		JoinDate:        joinDate,
		VacationPattern: pattern,
		WeeklyPattern:   weeklyPattern,
		ConfigVersion:   req.ConfigVersion,
		Role:            role,
		Status:          StatusActive,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	cacheKey := EmployeeOptionsKey

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight keeps a cold cache from hammering the database.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindAllActive(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	pattern, weeklyPattern, err := parseVacationPattern(req.VacationPattern)
	if err != nil {
		return EmployeeResponse{}, err
	}

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	empl.JoinDate = joinDate
	empl.VacationPattern = pattern
	empl.WeeklyPattern = weeklyPattern
	empl.ConfigVersion = req.ConfigVersion
	if req.Role != "" {
		empl.Role = req.Role
	}
	if req.Status != "" {
		empl.Status = req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

// parseVacationPattern splits the API label into the stored pattern and
// weekly workday count: "A" is full time, "B-2" is part time with two
// scheduled workdays per week.
func parseVacationPattern(label string) (string, *int, error) {
	if label == "A" {
		return "A", nil, nil
	}
	rest, found := strings.CutPrefix(label, "B-")
	if !found {
		return "", nil, employeeerrors.ErrInvalidVacationPattern
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 4 {
		return "", nil, employeeerrors.ErrInvalidVacationPattern
	}
	return "B", &n, nil
}

func vacationPatternLabel(pattern string, weeklyPattern *int) string {
	if pattern == "A" || weeklyPattern == nil {
		return pattern
	}
	return fmt.Sprintf("%s-%d", pattern, *weeklyPattern)
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              empl.ID.String(),
		EmployeeNumber:  empl.EmployeeNumber,
		FullName:        empl.FullName,
		Email:           empl.Email,
		JoinDate:        empl.JoinDate.Format("2006-01-02"),
		VacationPattern: vacationPatternLabel(empl.VacationPattern, empl.WeeklyPattern),
		WeeklyPattern:   empl.WeeklyPattern,
		ConfigVersion:   empl.ConfigVersion,
		Role:            empl.Role,
		Status:          empl.Status,
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}
