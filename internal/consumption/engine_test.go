package consumption_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sawa0358/hr-system-2025-sub003/internal/consumption"
	consumptionerrors "github.com/sawa0358/hr-system-2025-sub003/internal/consumption/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func makeLot(grantDate time.Time, remaining string) lot.GrantLot {
	return lot.GrantLot{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		GrantDate:     grantDate,
		DaysGranted:   dec(remaining),
		DaysRemaining: dec(remaining),
		ExpiryDate:    grantDate.AddDate(2, 0, 0),
	}
}

func TestPlan(t *testing.T) {
	t.Run("success draws entirely from newest lot first", func(t *testing.T) {
		newer := makeLot(date(2024, time.October, 1), "5")
		older := makeLot(date(2023, time.October, 1), "2")

		allocs, err := consumption.Plan([]lot.GrantLot{newer, older}, dec("3"))
		assert.NoError(t, err)
		if assert.Len(t, allocs, 1) {
			assert.Equal(t, newer.ID, allocs[0].LotID)
			assert.True(t, allocs[0].Days.Equal(dec("3")))
		}
	})

	t.Run("success spills into older lot when newest runs out", func(t *testing.T) {
		newer := makeLot(date(2024, time.October, 1), "5")
		older := makeLot(date(2023, time.October, 1), "2")

		allocs, err := consumption.Plan([]lot.GrantLot{newer, older}, dec("6.5"))
		assert.NoError(t, err)
		if assert.Len(t, allocs, 2) {
			assert.True(t, allocs[0].Days.Equal(dec("5")))
			assert.Equal(t, older.ID, allocs[1].LotID)
			assert.True(t, allocs[1].Days.Equal(dec("1.5")))
		}
	})

	t.Run("success exact balance consumes everything", func(t *testing.T) {
		newer := makeLot(date(2024, time.October, 1), "5")
		older := makeLot(date(2023, time.October, 1), "2")

		allocs, err := consumption.Plan([]lot.GrantLot{newer, older}, dec("7"))
		assert.NoError(t, err)
		assert.Len(t, allocs, 2)
	})

	t.Run("negative insufficient balance reports available days", func(t *testing.T) {
		newer := makeLot(date(2024, time.October, 1), "5")
		older := makeLot(date(2023, time.October, 1), "2")

		_, err := consumption.Plan([]lot.GrantLot{newer, older}, dec("7.5"))
		assert.Error(t, err)

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
			details, ok := appErr.Details.(map[string]string)
			if assert.True(t, ok) {
				assert.Equal(t, "7", details["available"])
				assert.Equal(t, "7.5", details["requested"])
			}
		}
	})

	t.Run("negative no lots at all", func(t *testing.T) {
		_, err := consumption.Plan(nil, dec("0.5"))
		assert.Error(t, err)
	})
}

func TestSplitPerDay(t *testing.T) {
	t.Run("success even split", func(t *testing.T) {
		shares := consumption.SplitPerDay(dec("3"), 3)
		if assert.Len(t, shares, 3) {
			for _, s := range shares {
				assert.True(t, s.Equal(dec("1")))
			}
		}
	})

	t.Run("success uneven split still sums exactly", func(t *testing.T) {
		shares := consumption.SplitPerDay(dec("2.5"), 3)
		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Equal(dec("2.5")), "sum was %s", sum)
	})

	t.Run("success half day over one day", func(t *testing.T) {
		shares := consumption.SplitPerDay(dec("0.5"), 1)
		if assert.Len(t, shares, 1) {
			assert.True(t, shares[0].Equal(dec("0.5")))
		}
	})

	t.Run("success awkward seventh splits conserve total", func(t *testing.T) {
		shares := consumption.SplitPerDay(dec("1"), 7)
		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Equal(dec("1")), "sum was %s", sum)
	})
}

func TestDateRange(t *testing.T) {
	t.Run("success inclusive of both ends", func(t *testing.T) {
		dates := consumption.DateRange(date(2025, time.March, 3), date(2025, time.March, 5))
		assert.Equal(t, []time.Time{
			date(2025, time.March, 3),
			date(2025, time.March, 4),
			date(2025, time.March, 5),
		}, dates)
	})

	t.Run("success single day", func(t *testing.T) {
		dates := consumption.DateRange(date(2025, time.March, 3), date(2025, time.March, 3))
		assert.Len(t, dates, 1)
	})

	t.Run("success crosses month boundary", func(t *testing.T) {
		dates := consumption.DateRange(date(2025, time.January, 30), date(2025, time.February, 2))
		assert.Len(t, dates, 4)
	})
}

func TestBuildRows(t *testing.T) {
	employeeID := uuid.New()
	requestID := uuid.New()

	t.Run("success per lot sums match allocations", func(t *testing.T) {
		lotA := uuid.New()
		lotB := uuid.New()
		dates := consumption.DateRange(date(2025, time.March, 3), date(2025, time.March, 5))

		rows := consumption.BuildRows(employeeID, requestID, dates, []consumption.LotAllocation{
			{LotID: lotA, Days: dec("2.5")},
			{LotID: lotB, Days: dec("0.5")},
		})

		sums := map[uuid.UUID]decimal.Decimal{
			lotA: decimal.Zero,
			lotB: decimal.Zero,
		}
		total := decimal.Zero
		for _, row := range rows {
			assert.Equal(t, employeeID, row.EmployeeID)
			assert.Equal(t, requestID, row.RequestID)
			sums[row.LotID] = sums[row.LotID].Add(row.DaysUsed)
			total = total.Add(row.DaysUsed)
		}

		assert.True(t, sums[lotA].Equal(dec("2.5")), "lot A sum was %s", sums[lotA])
		assert.True(t, sums[lotB].Equal(dec("0.5")), "lot B sum was %s", sums[lotB])
		assert.True(t, total.Equal(dec("3")), "total was %s", total)
	})

	t.Run("success zero shares dropped", func(t *testing.T) {
		// 0.5 days over 3 days rounds some daily shares to zero
		// cumulative steps; no zero-valued rows should be written.
		rows := consumption.BuildRows(employeeID, requestID,
			consumption.DateRange(date(2025, time.March, 3), date(2025, time.March, 5)),
			[]consumption.LotAllocation{{LotID: uuid.New(), Days: dec("0.5")}},
		)
		sum := decimal.Zero
		for _, row := range rows {
			assert.False(t, row.DaysUsed.IsZero())
			sum = sum.Add(row.DaysUsed)
		}
		assert.True(t, sum.Equal(dec("0.5")))
	})
}

type stubLotRepo struct {
	adjusted map[uuid.UUID]decimal.Decimal
}

func (s *stubLotRepo) WithTx(tx *sql.Tx) lot.Repository { return s }
func (s *stubLotRepo) Create(ctx context.Context, l *lot.GrantLot) error {
	return errors.New("not implemented")
}
func (s *stubLotRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]lot.GrantLot, error) {
	return nil, errors.New("not implemented")
}
func (s *stubLotRepo) FindByEmployeeAndGrantDate(ctx context.Context, employeeID string, grantDate time.Time) (*lot.GrantLot, error) {
	return nil, errors.New("not implemented")
}
func (s *stubLotRepo) ValidLots(ctx context.Context, employeeID string, asOf time.Time) ([]lot.GrantLot, error) {
	return nil, errors.New("not implemented")
}
func (s *stubLotRepo) AdjustRemaining(ctx context.Context, lotID string, delta decimal.Decimal) error {
	id := uuid.MustParse(lotID)
	s.adjusted[id] = s.adjusted[id].Add(delta)
	return nil
}

type stubConsRepo struct {
	allocs  []consumption.LotAllocation
	deleted []string
}

func (s *stubConsRepo) WithTx(tx *sql.Tx) consumption.Repository { return s }
func (s *stubConsRepo) CreateBatch(ctx context.Context, rows []consumption.Consumption) error {
	return errors.New("not implemented")
}
func (s *stubConsRepo) FindByRequest(ctx context.Context, requestID string) ([]consumption.Consumption, error) {
	return nil, errors.New("not implemented")
}
func (s *stubConsRepo) AllocationsByRequest(ctx context.Context, requestID string) ([]consumption.LotAllocation, error) {
	return s.allocs, nil
}
func (s *stubConsRepo) DeleteByRequest(ctx context.Context, requestID string) error {
	s.deleted = append(s.deleted, requestID)
	return nil
}
func (s *stubConsRepo) SumByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("not implemented")
}

func TestRefund(t *testing.T) {
	t.Run("success restores each lot and clears the ledger", func(t *testing.T) {
		lotA := uuid.New()
		lotB := uuid.New()
		lots := &stubLotRepo{adjusted: map[uuid.UUID]decimal.Decimal{}}
		cons := &stubConsRepo{allocs: []consumption.LotAllocation{
			{LotID: lotA, Days: dec("2.5")},
			{LotID: lotB, Days: dec("0.5")},
		}}
		requestID := uuid.New()

		err := consumption.NewEngine().Refund(context.Background(), lots, cons, requestID)

		assert.NoError(t, err)
		assert.True(t, lots.adjusted[lotA].Equal(dec("2.5")))
		assert.True(t, lots.adjusted[lotB].Equal(dec("0.5")))
		assert.Equal(t, []string{requestID.String()}, cons.deleted)
	})

	t.Run("negative nothing to refund", func(t *testing.T) {
		lots := &stubLotRepo{adjusted: map[uuid.UUID]decimal.Decimal{}}
		cons := &stubConsRepo{}

		err := consumption.NewEngine().Refund(context.Background(), lots, cons, uuid.New())

		assert.ErrorIs(t, err, consumptionerrors.ErrNothingToRefund)
		assert.Empty(t, lots.adjusted)
		assert.Empty(t, cons.deleted)
	})
}
