package request_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/sawa0358/hr-system-2025-sub003/internal/audit"
	"github.com/sawa0358/hr-system-2025-sub003/internal/consumption"
	"github.com/sawa0358/hr-system-2025-sub003/internal/domain"
	"github.com/sawa0358/hr-system-2025-sub003/internal/employee"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	"github.com/sawa0358/hr-system-2025-sub003/internal/messaging/kafka"
	"github.com/sawa0358/hr-system-2025-sub003/internal/request"
	requesterrors "github.com/sawa0358/hr-system-2025-sub003/internal/request/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

// In-memory doubles. The service only talks to the repositories, so the
// *sql.Tx handed down by WithTx is never dereferenced here and sqlmock
// only has to supply Begin/Commit.

type fakeRequestRepo struct {
	store map[string]request.TimeOffRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{store: map[string]request.TimeOffRequest{}}
}

func (f *fakeRequestRepo) WithTx(tx *sql.Tx) request.Repository { return f }

func (f *fakeRequestRepo) Create(ctx context.Context, r *request.TimeOffRequest) error {
	f.store[r.ID.String()] = *r
	return nil
}

func (f *fakeRequestRepo) FindAll(ctx context.Context, employeeID string) ([]request.TimeOffRequest, error) {
	var out []request.TimeOffRequest
	for _, r := range f.store {
		if employeeID == "" || r.EmployeeID.String() == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id string) (*request.TimeOffRequest, error) {
	r, ok := f.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := r
	return &copy, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, r *request.TimeOffRequest) error {
	f.store[r.ID.String()] = *r
	return nil
}

func (f *fakeRequestRepo) Delete(ctx context.Context, id string) error {
	delete(f.store, id)
	return nil
}

func (f *fakeRequestRepo) SumPendingDays(ctx context.Context, employeeID string, excludeID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, r := range f.store {
		if r.Status != request.StatusPending || r.EmployeeID.String() != employeeID {
			continue
		}
		if excludeID != "" && r.ID.String() == excludeID {
			continue
		}
		sum = sum.Add(r.TotalDays)
	}
	return sum, nil
}

type fakeLotRepo struct {
	lots map[string]*lot.GrantLot
}

func newFakeLotRepo(lots ...lot.GrantLot) *fakeLotRepo {
	f := &fakeLotRepo{lots: map[string]*lot.GrantLot{}}
	for i := range lots {
		l := lots[i]
		f.lots[l.ID.String()] = &l
	}
	return f
}

func (f *fakeLotRepo) WithTx(tx *sql.Tx) lot.Repository { return f }

func (f *fakeLotRepo) Create(ctx context.Context, l *lot.GrantLot) error {
	copy := *l
	f.lots[l.ID.String()] = &copy
	return nil
}

func (f *fakeLotRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]lot.GrantLot, error) {
	var out []lot.GrantLot
	for _, l := range f.lots {
		if l.EmployeeID.String() == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLotRepo) FindByEmployeeAndGrantDate(ctx context.Context, employeeID string, grantDate time.Time) (*lot.GrantLot, error) {
	for _, l := range f.lots {
		if l.EmployeeID.String() == employeeID && l.GrantDate.Equal(grantDate) {
			copy := *l
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLotRepo) ValidLots(ctx context.Context, employeeID string, asOf time.Time) ([]lot.GrantLot, error) {
	var out []lot.GrantLot
	for _, l := range f.lots {
		if l.EmployeeID.String() == employeeID && l.Valid(asOf) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GrantDate.After(out[j].GrantDate) })
	return out, nil
}

func (f *fakeLotRepo) AdjustRemaining(ctx context.Context, lotID string, delta decimal.Decimal) error {
	l, ok := f.lots[lotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.DaysRemaining = l.DaysRemaining.Add(delta)
	return nil
}

func (f *fakeLotRepo) remaining(lotID string) decimal.Decimal {
	return f.lots[lotID].DaysRemaining
}

type fakeConsRepo struct {
	rows []consumption.Consumption
}

func (f *fakeConsRepo) WithTx(tx *sql.Tx) consumption.Repository { return f }

func (f *fakeConsRepo) CreateBatch(ctx context.Context, rows []consumption.Consumption) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeConsRepo) FindByRequest(ctx context.Context, requestID string) ([]consumption.Consumption, error) {
	var out []consumption.Consumption
	for _, c := range f.rows {
		if c.RequestID.String() == requestID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConsRepo) AllocationsByRequest(ctx context.Context, requestID string) ([]consumption.LotAllocation, error) {
	sums := map[uuid.UUID]decimal.Decimal{}
	var order []uuid.UUID
	for _, c := range f.rows {
		if c.RequestID.String() != requestID {
			continue
		}
		if _, ok := sums[c.LotID]; !ok {
			order = append(order, c.LotID)
		}
		sums[c.LotID] = sums[c.LotID].Add(c.DaysUsed)
	}
	out := make([]consumption.LotAllocation, len(order))
	for i, id := range order {
		out[i] = consumption.LotAllocation{LotID: id, Days: sums[id]}
	}
	return out, nil
}

func (f *fakeConsRepo) DeleteByRequest(ctx context.Context, requestID string) error {
	kept := f.rows[:0]
	for _, c := range f.rows {
		if c.RequestID.String() != requestID {
			kept = append(kept, c)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeConsRepo) SumByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range f.rows {
		if c.EmployeeID.String() == employeeID && !c.Date.Before(from) && c.Date.Before(to) {
			sum = sum.Add(c.DaysUsed)
		}
	}
	return sum, nil
}

type fakeEmployeeRepo struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	return errors.New("not implemented")
}
func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeEmployeeRepo) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error {
	return errors.New("not implemented")
}
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

type fakeAuditRepo struct {
	actions []string
}

func (f *fakeAuditRepo) WithTx(tx *sql.Tx) audit.Repository { return f }
func (f *fakeAuditRepo) Record(ctx context.Context, employeeID *uuid.UUID, actor, action, entity string, payload any) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeOutboxRepo struct {
	staged []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.staged = append(f.staged, event)
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id, _ string) error {
	return nil
}

type fakeRBACService struct {
	allow bool
}

func (f *fakeRBACService) LoadPolicy() error { return nil }
func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.allow, nil
}
func (f *fakeRBACService) RequiresPrivilege(action string) bool { return true }

type fixture struct {
	svc      request.Service
	requests *fakeRequestRepo
	lots     *fakeLotRepo
	cons     *fakeConsRepo
	outbox   *fakeOutboxRepo
	rbac     *fakeRBACService
	mock     sqlmock.Sqlmock
	close    func()
}

func newFixture(t *testing.T, empID uuid.UUID, lots ...lot.GrantLot) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	requests := newFakeRequestRepo()
	lotRepo := newFakeLotRepo(lots...)
	cons := &fakeConsRepo{}
	outbox := &fakeOutboxRepo{}
	rbacSvc := &fakeRBACService{allow: true}
	employees := &fakeEmployeeRepo{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{
				ID:       empID,
				FullName: "Hanako Sato",
				Role:     employee.RoleMember,
				Status:   employee.StatusActive,
			}, nil
		},
	}

	svc := request.NewService(
		db, requests, lotRepo, cons, consumption.NewEngine(),
		employees, rbacSvc, &fakeAuditRepo{}, outbox, nil,
	)
	return &fixture{
		svc:      svc,
		requests: requests,
		lots:     lotRepo,
		cons:     cons,
		outbox:   outbox,
		rbac:     rbacSvc,
		mock:     mock,
		close:    func() { db.Close() },
	}
}

func (f *fixture) expectTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func grantLot(empID uuid.UUID, grantDate string, granted, remaining float64) lot.GrantLot {
	gd := day(grantDate)
	return lot.GrantLot{
		ID:            uuid.New(),
		EmployeeID:    empID,
		GrantDate:     gd,
		DaysGranted:   decimal.NewFromFloat(granted),
		DaysRemaining: decimal.NewFromFloat(remaining),
		ExpiryDate:    gd.AddDate(2, 0, 0),
		ConfigVersion: "default-v1",
	}
}

func TestRequestServiceCreate(t *testing.T) {
	empID := uuid.New()
	actor := request.Actor{ID: empID.String(), Role: employee.RoleMember}

	t.Run("success creates a pending request charged per day", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()
		f.expectTx()

		resp, err := f.svc.Create(context.Background(), actor, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-04",
			Reason:     "family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.True(t, resp.TotalDays.Equal(decimal.NewFromInt(3)), "got %s", resp.TotalDays)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("success pending totals reserve balance for later requests", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 5, 5))
		defer f.close()
		f.expectTx()

		_, err := f.svc.Create(context.Background(), actor, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-05",
			Reason:     "first",
		})
		assert.NoError(t, err)

		// 5 granted, 4 pending: only 1 day left to promise.
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		_, err = f.svc.Create(context.Background(), actor, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-07-01",
			EndDate:    "2025-07-02",
			Reason:     "second",
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
	})

	t.Run("negative insufficient balance carries detail", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 2))
		defer f.close()
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.svc.Create(context.Background(), actor, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-04",
			Reason:     "family trip",
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
		details, ok := appErr.Details.(map[string]string)
		assert.True(t, ok)
		assert.Equal(t, "3", details["requested"])
		assert.Equal(t, "2", details["available"])
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		f := newFixture(t, empID)
		defer f.close()

		_, err := f.svc.Create(context.Background(), actor, request.CreateRequest{
			EmployeeID: "not-a-uuid",
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-04",
		})

		assert.ErrorIs(t, err, requesterrors.ErrInvalidEmployeeID)
	})

	t.Run("negative malformed dates", func(t *testing.T) {
		f := newFixture(t, empID)
		defer f.close()

		_, err := f.svc.Create(context.Background(), actor, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "06/02/2025",
			EndDate:    "2025-06-04",
		})

		assert.ErrorIs(t, err, requesterrors.ErrInvalidDateFormat)
	})
}

func TestRequestServiceApprove(t *testing.T) {
	empID := uuid.New()
	manager := request.Actor{ID: uuid.NewString(), Role: employee.RoleManager}
	member := request.Actor{ID: empID.String(), Role: employee.RoleMember}

	create := func(t *testing.T, f *fixture, start, end string) request.RequestResponse {
		t.Helper()
		f.expectTx()
		resp, err := f.svc.Create(context.Background(), member, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  start,
			EndDate:    end,
			Reason:     "pto",
		})
		assert.NoError(t, err)
		return resp
	}

	t.Run("success approve draws newest lot first and records breakdown", func(t *testing.T) {
		older := grantLot(empID, "2023-10-01", 10, 3)
		newer := grantLot(empID, "2024-10-01", 11, 4)
		f := newFixture(t, empID, older, newer)
		defer f.close()

		created := create(t, f, "2025-06-02", "2025-06-07") // 6 days

		f.expectTx()
		resp, err := f.svc.Approve(context.Background(), manager, created.ID)

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NotNil(t, resp.ApprovedAt)
		assert.Equal(t, manager.ID, *resp.ApprovedBy)

		// Newer lot drained first, spill lands on the older one.
		assert.True(t, f.lots.remaining(newer.ID.String()).IsZero())
		assert.True(t, f.lots.remaining(older.ID.String()).Equal(decimal.NewFromInt(1)))

		assert.Len(t, resp.Breakdown, 2)
		assert.Equal(t, newer.ID.String(), resp.Breakdown[0].LotID)
		assert.True(t, resp.Breakdown[0].Days.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, older.ID.String(), resp.Breakdown[1].LotID)
		assert.True(t, resp.Breakdown[1].Days.Equal(decimal.NewFromInt(2)))

		// One consumption row per calendar day.
		rows, _ := f.cons.FindByRequest(context.Background(), created.ID)
		assert.Len(t, rows, 6)

		assert.Len(t, f.outbox.staged, 1) // creation stages nothing, the decision does
	})

	t.Run("negative approve twice", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()

		created := create(t, f, "2025-06-02", "2025-06-03")

		f.expectTx()
		_, err := f.svc.Approve(context.Background(), manager, created.ID)
		assert.NoError(t, err)

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		_, err = f.svc.Approve(context.Background(), manager, created.ID)
		assert.ErrorIs(t, err, requesterrors.ErrInvalidTransition)
	})

	t.Run("negative unknown request", func(t *testing.T) {
		f := newFixture(t, empID)
		defer f.close()
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.svc.Approve(context.Background(), manager, uuid.NewString())

		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
	})
}

func TestRequestServiceReject(t *testing.T) {
	empID := uuid.New()
	manager := request.Actor{ID: uuid.NewString(), Role: employee.RoleManager}
	member := request.Actor{ID: empID.String(), Role: employee.RoleMember}

	t.Run("success reject leaves lots untouched", func(t *testing.T) {
		l := grantLot(empID, "2024-10-01", 11, 11)
		f := newFixture(t, empID, l)
		defer f.close()

		f.expectTx()
		created, err := f.svc.Create(context.Background(), member, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-03",
			Reason:     "pto",
		})
		assert.NoError(t, err)

		f.expectTx()
		resp, err := f.svc.Reject(context.Background(), manager, created.ID, "coverage conflict")

		assert.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Equal(t, "coverage conflict", resp.Reason)
		assert.True(t, f.lots.remaining(l.ID.String()).Equal(decimal.NewFromInt(11)))
	})

	t.Run("negative reject requires a reason", func(t *testing.T) {
		f := newFixture(t, empID)
		defer f.close()

		_, err := f.svc.Reject(context.Background(), manager, uuid.NewString(), "")

		assert.ErrorIs(t, err, requesterrors.ErrRejectionReasonRequired)
	})
}

func TestRequestServiceEdit(t *testing.T) {
	empID := uuid.New()
	manager := request.Actor{ID: uuid.NewString(), Role: employee.RoleManager}
	member := request.Actor{ID: empID.String(), Role: employee.RoleMember}

	setup := func(t *testing.T, f *fixture, approve bool) request.RequestResponse {
		t.Helper()
		f.expectTx()
		created, err := f.svc.Create(context.Background(), member, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-04",
			Reason:     "pto",
		})
		assert.NoError(t, err)
		if approve {
			f.expectTx()
			created, err = f.svc.Approve(context.Background(), manager, created.ID)
			assert.NoError(t, err)
		}
		return created
	}

	t.Run("success plain edit of a pending request", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()
		created := setup(t, f, false)

		f.expectTx()
		resp, err := f.svc.Edit(context.Background(), member, created.ID, request.EditRequest{
			StartDate: "2025-06-02",
			EndDate:   "2025-06-03",
			Reason:    "shorter trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.True(t, resp.TotalDays.Equal(decimal.NewFromInt(2)))
	})

	t.Run("success forced edit of approved refunds then reconsumes", func(t *testing.T) {
		l := grantLot(empID, "2024-10-01", 11, 11)
		f := newFixture(t, empID, l)
		defer f.close()
		created := setup(t, f, true)
		assert.True(t, f.lots.remaining(l.ID.String()).Equal(decimal.NewFromInt(8)))

		f.expectTx()
		resp, err := f.svc.Edit(context.Background(), manager, created.ID, request.EditRequest{
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "extended",
			Force:     true,
		})

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.True(t, resp.TotalDays.Equal(decimal.NewFromInt(5)))
		assert.True(t, f.lots.remaining(l.ID.String()).Equal(decimal.NewFromInt(6)))

		rows, _ := f.cons.FindByRequest(context.Background(), created.ID)
		assert.Len(t, rows, 5)
	})

	t.Run("success forced edit of rejected reopens without consuming", func(t *testing.T) {
		l := grantLot(empID, "2024-10-01", 11, 11)
		f := newFixture(t, empID, l)
		defer f.close()
		created := setup(t, f, false)

		f.expectTx()
		_, err := f.svc.Reject(context.Background(), manager, created.ID, "not now")
		assert.NoError(t, err)

		f.expectTx()
		resp, err := f.svc.Edit(context.Background(), manager, created.ID, request.EditRequest{
			StartDate: "2025-07-01",
			EndDate:   "2025-07-02",
			Reason:    "retry later",
			Force:     true,
		})

		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Nil(t, resp.ApprovedBy)
		assert.Nil(t, resp.ApprovedAt)
		assert.Empty(t, resp.Breakdown)
		assert.True(t, f.lots.remaining(l.ID.String()).Equal(decimal.NewFromInt(11)))
		assert.Empty(t, f.cons.rows)
	})

	t.Run("negative edit of approved without force", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()
		created := setup(t, f, true)

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		_, err := f.svc.Edit(context.Background(), member, created.ID, request.EditRequest{
			StartDate: "2025-06-02",
			EndDate:   "2025-06-03",
			Force:     false,
		})

		assert.ErrorIs(t, err, requesterrors.ErrForceRequired)
	})

	t.Run("negative forced edit without privilege", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()
		created := setup(t, f, true)
		f.rbac.allow = false

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		_, err := f.svc.Edit(context.Background(), member, created.ID, request.EditRequest{
			StartDate: "2025-06-02",
			EndDate:   "2025-06-03",
			Force:     true,
		})

		assert.ErrorIs(t, err, requesterrors.ErrPermissionDenied)
	})
}

func TestRequestServiceDelete(t *testing.T) {
	empID := uuid.New()
	manager := request.Actor{ID: uuid.NewString(), Role: employee.RoleManager}
	member := request.Actor{ID: empID.String(), Role: employee.RoleMember}

	t.Run("success approve then forced delete restores balances exactly", func(t *testing.T) {
		older := grantLot(empID, "2023-10-01", 10, 3)
		newer := grantLot(empID, "2024-10-01", 11, 4)
		f := newFixture(t, empID, older, newer)
		defer f.close()

		f.expectTx()
		created, err := f.svc.Create(context.Background(), member, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-06",
			Reason:     "pto",
		})
		assert.NoError(t, err)

		f.expectTx()
		_, err = f.svc.Approve(context.Background(), manager, created.ID)
		assert.NoError(t, err)

		f.expectTx()
		err = f.svc.Delete(context.Background(), manager, created.ID, request.DeleteRequest{
			EmployeeID: empID.String(),
			Force:      true,
		})
		assert.NoError(t, err)

		assert.True(t, f.lots.remaining(older.ID.String()).Equal(decimal.NewFromInt(3)))
		assert.True(t, f.lots.remaining(newer.ID.String()).Equal(decimal.NewFromInt(4)))
		assert.Empty(t, f.cons.rows)

		_, err = f.svc.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
	})

	t.Run("success delete of rejected needs no force", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()

		f.expectTx()
		created, err := f.svc.Create(context.Background(), member, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-03",
			Reason:     "pto",
		})
		assert.NoError(t, err)

		f.expectTx()
		_, err = f.svc.Reject(context.Background(), manager, created.ID, "no")
		assert.NoError(t, err)

		f.expectTx()
		err = f.svc.Delete(context.Background(), member, created.ID, request.DeleteRequest{
			EmployeeID: empID.String(),
		})
		assert.NoError(t, err)
	})

	t.Run("negative delete of approved without force", func(t *testing.T) {
		f := newFixture(t, empID, grantLot(empID, "2024-10-01", 11, 11))
		defer f.close()

		f.expectTx()
		created, err := f.svc.Create(context.Background(), member, request.CreateRequest{
			EmployeeID: empID.String(),
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-03",
			Reason:     "pto",
		})
		assert.NoError(t, err)

		f.expectTx()
		_, err = f.svc.Approve(context.Background(), manager, created.ID)
		assert.NoError(t, err)

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		err = f.svc.Delete(context.Background(), member, created.ID, request.DeleteRequest{
			EmployeeID: empID.String(),
		})

		assert.ErrorIs(t, err, requesterrors.ErrForceRequired)
	})
}
