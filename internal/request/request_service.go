package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sawa0358/hr-system-2025-sub003/internal/audit"
	"github.com/sawa0358/hr-system-2025-sub003/internal/consumption"
	consumptionerrors "github.com/sawa0358/hr-system-2025-sub003/internal/consumption/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/domain"
	"github.com/sawa0358/hr-system-2025-sub003/internal/employee"
	employeeerrors "github.com/sawa0358/hr-system-2025-sub003/internal/employee/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/events"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	"github.com/sawa0358/hr-system-2025-sub003/internal/messaging/kafka"
	requesterrors "github.com/sawa0358/hr-system-2025-sub003/internal/request/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/rbac"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/contextutil"
)

// statsCacheKeyPrefix matches the stats read-through cache so mutations
// here evict stale aggregates.
const statsCacheKeyPrefix = "leave:stats:"

// Actor identifies the authenticated caller for privilege checks and
// audit attribution.
type Actor struct {
	ID   string
	Role string
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (RequestResponse, error)
	GetAll(ctx context.Context, employeeID string) ([]RequestResponse, error)
	GetByID(ctx context.Context, id string) (RequestResponse, error)
	Approve(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	Reject(ctx context.Context, actor Actor, id, reason string) (RequestResponse, error)
	Edit(ctx context.Context, actor Actor, id string, req EditRequest) (RequestResponse, error)
	Delete(ctx context.Context, actor Actor, id string, req DeleteRequest) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	lots      lot.Repository
	cons      consumption.Repository
	engine    *consumption.Engine
	employees employee.Repository
	rbac      rbac.Service
	audit     audit.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	lotRepo lot.Repository,
	consRepo consumption.Repository,
	engine *consumption.Engine,
	employees employee.Repository,
	rbacService rbac.Service,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		lots:      lotRepo,
		cons:      consRepo,
		engine:    engine,
		employees: employees,
		rbac:      rbacService,
		audit:     auditRepo,
		outbox:    outboxRepo,
		rdb:       rdb,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create request requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidEmployeeID
	}
	createdBy, err := uuid.Parse(actor.ID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidEmployeeID
	}

	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}

	emp, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return RequestResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return RequestResponse{}, employeeerrors.ErrEmployeeInactive
	}

	unit := req.Unit
	if unit == "" {
		unit = UnitDay
	}
	hoursPerDay := decimal.NewFromFloat(req.HoursPerDay)
	if !hoursPerDay.IsPositive() {
		hoursPerDay = decimal.NewFromInt(8)
	}

	totalDays, err := DeriveTotalDays(unit, startDate, endDate, hoursPerDay, decimal.NewFromFloat(req.UsedDays))
	if err != nil {
		s.logger.Warn("create request derive total failed", zap.Error(err))
		return RequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)
	qlots := s.lots.WithTx(tx)

	if err := s.checkBalance(ctx, qrepo, qlots, req.EmployeeID, startDate, totalDays, ""); err != nil {
		return RequestResponse{}, err
	}

	r := &TimeOffRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		StartDate:   startDate,
		EndDate:     endDate,
		Unit:        unit,
		HoursPerDay: hoursPerDay,
		TotalDays:   totalDays,
		Status:      StatusPending,
		Reason:      req.Reason,
		CreatedBy:   createdBy,
	}
	if err := qrepo.Create(ctx, r); err != nil {
		s.logger.Error("create request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	if err := s.audit.WithTx(tx).Record(ctx, &employeeID, actor.ID, "request.created", "time_off_request", map[string]any{
		"request_id": r.ID.String(),
		"total_days": totalDays.String(),
	}); err != nil {
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.invalidateStats(ctx, req.EmployeeID)

	s.logger.Info("create request success",
		zap.String("request_id", rid),
		zap.String("time_off_request_id", r.ID.String()),
		zap.String("total_days", totalDays.String()),
	)
	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, employeeID string) ([]RequestResponse, error) {
	reqs, err := s.repo.FindAll(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]RequestResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (RequestResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	return mapToResponse(*r), nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)
	qlots := s.lots.WithTx(tx)
	qcons := s.cons.WithTx(tx)

	r, err := qrepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}

	decision, err := Decide(r.Status, ActionApprove, false)
	if err != nil {
		s.logger.Warn("approve request invalid transition",
			zap.String("time_off_request_id", id),
			zap.String("from_status", string(r.Status)),
		)
		return RequestResponse{}, err
	}

	dates := consumption.DateRange(r.StartDate, r.EndDate)
	allocs, err := s.engine.Consume(ctx, qlots, qcons, r.EmployeeID, r.ID, dates, r.TotalDays)
	if err != nil {
		return RequestResponse{}, err
	}

	breakdown, err := marshalBreakdown(allocs)
	if err != nil {
		return RequestResponse{}, err
	}

	now := time.Now().UTC()
	r.Status = decision.Next
	r.ApprovedBy = &actorID
	r.FinalizedBy = &actorID
	r.ApprovedAt = &now
	r.BreakdownJSON = breakdown

	if err := qrepo.Update(ctx, r); err != nil {
		s.logger.Error("approve request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	empID := r.EmployeeID
	if err := s.audit.WithTx(tx).Record(ctx, &empID, actor.ID, "request.approved", "time_off_request", map[string]any{
		"request_id": r.ID.String(),
		"total_days": r.TotalDays.String(),
		"breakdown":  json.RawMessage(breakdown),
	}); err != nil {
		return RequestResponse{}, err
	}

	if decision.Has(CmdNotify) {
		if err := s.stageDecisionEvent(ctx, tx, r, events.LeaveRequestApproved); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.invalidateStats(ctx, r.EmployeeID.String())

	s.logger.Info("approve request success",
		zap.String("time_off_request_id", id),
		zap.String("total_days", r.TotalDays.String()),
	)
	return mapToResponse(*r), nil
}

func (s *service) Reject(ctx context.Context, actor Actor, id, reason string) (RequestResponse, error) {
	if reason == "" {
		return RequestResponse{}, requesterrors.ErrRejectionReasonRequired
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)

	r, err := qrepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}

	decision, err := Decide(r.Status, ActionReject, false)
	if err != nil {
		return RequestResponse{}, err
	}

	r.Status = decision.Next
	r.FinalizedBy = &actorID
	r.Reason = reason

	if err := qrepo.Update(ctx, r); err != nil {
		s.logger.Error("reject request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	empID := r.EmployeeID
	if err := s.audit.WithTx(tx).Record(ctx, &empID, actor.ID, "request.rejected", "time_off_request", map[string]any{
		"request_id": r.ID.String(),
		"reason":     reason,
	}); err != nil {
		return RequestResponse{}, err
	}

	if decision.Has(CmdNotify) {
		if err := s.stageDecisionEvent(ctx, tx, r, events.LeaveRequestRejected); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.invalidateStats(ctx, r.EmployeeID.String())

	s.logger.Info("reject request success", zap.String("time_off_request_id", id))
	return mapToResponse(*r), nil
}

func (s *service) Edit(ctx context.Context, actor Actor, id string, req EditRequest) (RequestResponse, error) {
	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}

	unit := req.Unit
	if unit == "" {
		unit = UnitDay
	}
	hoursPerDay := decimal.NewFromFloat(req.HoursPerDay)
	if !hoursPerDay.IsPositive() {
		hoursPerDay = decimal.NewFromInt(8)
	}

	newTotal, err := DeriveTotalDays(unit, startDate, endDate, hoursPerDay, decimal.NewFromFloat(req.UsedDays))
	if err != nil {
		return RequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("edit request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)
	qlots := s.lots.WithTx(tx)
	qcons := s.cons.WithTx(tx)

	r, err := qrepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}

	decision, err := Decide(r.Status, ActionEdit, req.Force)
	if err != nil {
		return RequestResponse{}, err
	}
	if r.Status != StatusPending {
		if err := s.requirePrivilege(actor, rbac.ActionForceEdit); err != nil {
			return RequestResponse{}, err
		}
	}

	if decision.Has(CmdRefund) {
		if err := s.engine.Refund(ctx, qlots, qcons, r.ID); err != nil {
			return RequestResponse{}, err
		}
	}

	// Balance check excludes this request's own pending total and runs
	// after the refund so freed days count.
	if err := s.checkBalance(ctx, qrepo, qlots, r.EmployeeID.String(), startDate, newTotal, id); err != nil {
		return RequestResponse{}, err
	}

	r.StartDate = startDate
	r.EndDate = endDate
	r.Unit = unit
	r.HoursPerDay = hoursPerDay
	r.TotalDays = newTotal
	r.Reason = req.Reason
	r.Status = decision.Next

	if decision.Has(CmdConsume) {
		dates := consumption.DateRange(startDate, endDate)
		allocs, err := s.engine.Consume(ctx, qlots, qcons, r.EmployeeID, r.ID, dates, newTotal)
		if err != nil {
			return RequestResponse{}, err
		}
		breakdown, err := marshalBreakdown(allocs)
		if err != nil {
			return RequestResponse{}, err
		}
		r.BreakdownJSON = breakdown
		now := time.Now().UTC()
		r.ApprovedAt = &now
	}
	if decision.Next == StatusPending {
		r.ApprovedBy = nil
		r.ApprovedAt = nil
		r.BreakdownJSON = ""
	}
	if actorID, err := uuid.Parse(actor.ID); err == nil {
		r.FinalizedBy = &actorID
	}

	if err := qrepo.Update(ctx, r); err != nil {
		s.logger.Error("edit request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	empID := r.EmployeeID
	if err := s.audit.WithTx(tx).Record(ctx, &empID, actor.ID, "request.edited", "time_off_request", map[string]any{
		"request_id": r.ID.String(),
		"total_days": newTotal.String(),
		"status":     string(r.Status),
		"force":      req.Force,
	}); err != nil {
		return RequestResponse{}, err
	}

	if decision.Has(CmdNotify) {
		eventType := events.LeaveRequestApproved
		if decision.Next == StatusPending {
			eventType = events.LeaveRequestReverted
		}
		if err := s.stageDecisionEvent(ctx, tx, r, eventType); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("edit request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.invalidateStats(ctx, r.EmployeeID.String())

	s.logger.Info("edit request success",
		zap.String("time_off_request_id", id),
		zap.String("status", string(r.Status)),
		zap.Bool("force", req.Force),
	)
	return mapToResponse(*r), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id string, req DeleteRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete request begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)
	qlots := s.lots.WithTx(tx)
	qcons := s.cons.WithTx(tx)

	r, err := qrepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return requesterrors.ErrRequestNotFound
		}
		return err
	}

	decision, err := Decide(r.Status, ActionDelete, req.Force)
	if err != nil {
		return err
	}
	if r.Status == StatusApproved {
		if err := s.requirePrivilege(actor, rbac.ActionForceDelete); err != nil {
			return err
		}
	}

	if decision.Has(CmdRefund) {
		if err := s.engine.Refund(ctx, qlots, qcons, r.ID); err != nil {
			return err
		}
	}

	if err := qrepo.Delete(ctx, id); err != nil {
		s.logger.Error("delete request persist failed", zap.Error(err))
		return err
	}

	empID := r.EmployeeID
	if err := s.audit.WithTx(tx).Record(ctx, &empID, actor.ID, "request.deleted", "time_off_request", map[string]any{
		"request_id": r.ID.String(),
		"status":     string(r.Status),
		"force":      req.Force,
	}); err != nil {
		return err
	}

	if decision.Has(CmdNotify) {
		if err := s.stageDecisionEvent(ctx, tx, r, events.LeaveRequestReverted); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete request commit failed", zap.Error(err))
		return err
	}

	s.invalidateStats(ctx, r.EmployeeID.String())

	s.logger.Info("delete request success",
		zap.String("time_off_request_id", id),
		zap.Bool("force", req.Force),
	)
	return nil
}

// checkBalance verifies available = remaining - pending covers the
// requested total. Runs on tx-bound repos so the lots read here are the
// same locked rows any following consumption will decrement.
func (s *service) checkBalance(
	ctx context.Context,
	qrepo Repository,
	qlots lot.Repository,
	employeeID string,
	startDate time.Time,
	total decimal.Decimal,
	excludeID string,
) error {
	lots, err := qlots.ValidLots(ctx, employeeID, startDate)
	if err != nil {
		return err
	}
	remaining := decimal.Zero
	for _, l := range lots {
		remaining = remaining.Add(l.DaysRemaining)
	}

	pending, err := qrepo.SumPendingDays(ctx, employeeID, excludeID)
	if err != nil {
		return err
	}

	available := remaining.Sub(pending)
	if total.GreaterThan(available) {
		s.logger.Warn("balance check failed",
			zap.String("employee_id", employeeID),
			zap.String("requested", total.String()),
			zap.String("available", available.String()),
		)
		return consumptionerrors.ErrInsufficientBalance.WithDetails(map[string]string{
			"requested": total.String(),
			"available": available.String(),
			"remaining": remaining.String(),
			"pending":   pending.String(),
		})
	}
	return nil
}

func (s *service) requirePrivilege(actor Actor, action string) error {
	allowed, err := s.rbac.Enforce(domain.EnforceRequest{
		Role:     actor.Role,
		Resource: rbac.ResourceLeaveRequest,
		Action:   action,
	})
	if err != nil {
		return err
	}
	if !allowed {
		return requesterrors.ErrPermissionDenied
	}
	return nil
}

func (s *service) stageDecisionEvent(ctx context.Context, tx *sql.Tx, r *TimeOffRequest, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecisionEvent{
		EventType:  eventType,
		RequestID:  r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Status:     string(r.Status),
		TotalDays:  r.TotalDays.String(),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "time_off_request",
		AggregateID:   r.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateStats(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	key := statsCacheKeyPrefix + employeeID
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("failed to invalidate stats cache",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func marshalBreakdown(allocs []consumption.LotAllocation) (string, error) {
	items := make([]BreakdownItem, len(allocs))
	for i, a := range allocs {
		items[i] = BreakdownItem{LotID: a.LotID.String(), Days: a.Days}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func mapToResponse(r TimeOffRequest) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID.String(),
		EmployeeID:  r.EmployeeID.String(),
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		Unit:        r.Unit,
		HoursPerDay: r.HoursPerDay,
		TotalDays:   r.TotalDays,
		Status:      string(r.Status),
		Reason:      r.Reason,
		CreatedBy:   r.CreatedBy.String(),
	}
	if r.ApprovedBy != nil {
		v := r.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if r.FinalizedBy != nil {
		v := r.FinalizedBy.String()
		resp.FinalizedBy = &v
	}
	if r.ApprovedAt != nil {
		v := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if r.BreakdownJSON != "" {
		var items []BreakdownItem
		if json.Unmarshal([]byte(r.BreakdownJSON), &items) == nil {
			resp.Breakdown = items
		}
	}
	return resp
}
