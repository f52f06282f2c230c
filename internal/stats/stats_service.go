package stats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/sawa0358/hr-system-2025-sub003/internal/accrual"
	"github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig"
	"github.com/sawa0358/hr-system-2025-sub003/internal/consumption"
	"github.com/sawa0358/hr-system-2025-sub003/internal/employee"
	employeeerrors "github.com/sawa0358/hr-system-2025-sub003/internal/employee/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	"github.com/sawa0358/hr-system-2025-sub003/internal/request"
)

// CacheKeyPrefix is shared knowledge with the request service, which
// evicts these entries after every balance-changing commit.
const CacheKeyPrefix = "leave:stats:"

const (
	cacheTTL           = 5 * time.Minute
	expiringSoonWindow = 30 // days
)

//go:generate mockgen -source=stats_service.go -destination=mock/stats_service_mock.go -package=mock
type Service interface {
	Stats(ctx context.Context, employeeID string, asOf time.Time) (StatsResponse, error)
}

type service struct {
	lots      lot.Repository
	requests  request.Repository
	cons      consumption.Repository
	employees employee.Repository
	configs   accrualconfig.Service
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	lotRepo lot.Repository,
	requestRepo request.Repository,
	consRepo consumption.Repository,
	employees employee.Repository,
	configs accrualconfig.Service,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("stats.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stats.service")
	}
	return &service{
		lots:      lotRepo,
		requests:  requestRepo,
		cons:      consRepo,
		employees: employees,
		configs:   configs,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Stats(ctx context.Context, employeeID string, asOf time.Time) (StatsResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return StatsResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	asOf = accrual.DateOnly(asOf)

	cacheKey := CacheKeyPrefix + employeeID
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp StatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil && resp.AsOf == asOf.Format("2006-01-02") {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.compute(ctx, employeeID, asOf)
		if err != nil {
			return StatsResponse{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, cacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return StatsResponse{}, err
	}
	return v.(StatsResponse), nil
}

func (s *service) compute(ctx context.Context, employeeID string, asOf time.Time) (StatsResponse, error) {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatsResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return StatsResponse{}, err
	}

	cfg, err := s.configs.Load(ctx, emp.ConfigVersion)
	if err != nil {
		return StatsResponse{}, err
	}

	lots, err := s.lots.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return StatsResponse{}, err
	}

	remaining := decimal.Zero
	expiringSoon := decimal.Zero
	soonCutoff := asOf.AddDate(0, 0, expiringSoonWindow)
	var latestGranted decimal.Decimal
	var latestGrantDate time.Time
	for _, l := range lots {
		if !l.Valid(asOf) {
			continue
		}
		remaining = remaining.Add(l.DaysRemaining)
		if !l.ExpiryDate.After(soonCutoff) {
			expiringSoon = expiringSoon.Add(l.DaysRemaining)
		}
		if l.GrantDate.After(latestGrantDate) && !l.GrantDate.After(asOf) {
			latestGrantDate = l.GrantDate
			latestGranted = l.DaysGranted
		}
	}

	pending, err := s.requests.SumPendingDays(ctx, employeeID, "")
	if err != nil {
		return StatsResponse{}, err
	}

	prevGrant := accrual.PreviousGrantDate(cfg, emp.JoinDate, asOf)
	nextGrant := accrual.NextGrantDate(cfg, emp.JoinDate, asOf)

	// Used days only make sense inside an entitlement period, which
	// starts at the latest grant. The window ends at asOf inclusive:
	// on a grant anniversary prev equals asOf, and consumption dated
	// that day still counts. Future-dated rows do not.
	used := decimal.Zero
	if prevGrant != nil {
		used, err = s.cons.SumByEmployeeBetween(ctx, employeeID, *prevGrant, asOf.AddDate(0, 0, 1))
		if err != nil {
			return StatsResponse{}, err
		}
	}

	shortfall := decimal.Zero
	if prevGrant != nil && latestGranted.GreaterThanOrEqual(decimal.NewFromFloat(cfg.MinGrantDaysForAlert)) {
		minUse := decimal.NewFromFloat(cfg.MinUseDays)
		if minUse.GreaterThan(used) {
			shortfall = minUse.Sub(used)
		}
	}

	resp := StatsResponse{
		EmployeeID:          employeeID,
		AsOf:                asOf.Format("2006-01-02"),
		RemainingDays:       remaining,
		PendingDays:         pending,
		AvailableDays:       remaining.Sub(pending),
		UsedDays:            used,
		NextGrantDate:       nextGrant.Format("2006-01-02"),
		ExpiringSoonDays:    expiringSoon,
		MinUseShortfallDays: shortfall,
	}
	if prevGrant != nil {
		v := prevGrant.Format("2006-01-02")
		resp.PreviousGrantDate = &v
	}
	return resp, nil
}
