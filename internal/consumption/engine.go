package consumption

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	consumptionerrors "github.com/sawa0358/hr-system-2025-sub003/internal/consumption/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
)

// rowScale is the precision of per-day ledger rows. Lots hold two
// decimal places; rows carry four so uneven splits still sum exactly.
const rowScale = 4

// Engine turns an approved request into lot decrements plus per-day
// ledger rows, and reverses that on refund. Both operations must run on
// tx-bound repositories so lot locks and row writes commit atomically.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger ...*zap.Logger) *Engine {
	l := zap.L().Named("consumption.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("consumption.engine")
	}
	return &Engine{logger: l}
}

// Plan allocates total across the given lots, newest grant first, so
// recently granted days are spent before older ones. Lots must already
// be filtered to valid ones and ordered by grant date descending.
func Plan(lots []lot.GrantLot, total decimal.Decimal) ([]LotAllocation, error) {
	remaining := total
	var allocs []LotAllocation

	for _, l := range lots {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(l.DaysRemaining, remaining)
		if !take.IsPositive() {
			continue
		}
		allocs = append(allocs, LotAllocation{LotID: l.ID, Days: take})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		available := total.Sub(remaining)
		return nil, consumptionerrors.ErrInsufficientBalance.WithDetails(map[string]string{
			"requested": total.String(),
			"available": available.String(),
		})
	}
	return allocs, nil
}

// SplitPerDay spreads an allocation over n days. Each day's share is the
// difference of consecutive rounded cumulative shares, so the n values
// sum to exactly alloc regardless of rounding.
func SplitPerDay(alloc decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	shares := make([]decimal.Decimal, n)
	days := decimal.NewFromInt(int64(n))
	prev := decimal.Zero
	for i := 0; i < n; i++ {
		cum := alloc.Mul(decimal.NewFromInt(int64(i + 1))).Div(days).Round(rowScale)
		shares[i] = cum.Sub(prev)
		prev = cum
	}
	return shares
}

// DateRange lists every calendar day from start through end inclusive.
func DateRange(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// BuildRows expands allocations into one ledger row per lot per day.
func BuildRows(employeeID, requestID uuid.UUID, dates []time.Time, allocs []LotAllocation) []Consumption {
	rows := make([]Consumption, 0, len(dates)*len(allocs))
	for _, a := range allocs {
		shares := SplitPerDay(a.Days, len(dates))
		for i, d := range dates {
			if shares[i].IsZero() {
				continue
			}
			rows = append(rows, Consumption{
				ID:         uuid.New(),
				EmployeeID: employeeID,
				RequestID:  requestID,
				LotID:      a.LotID,
				Date:       d,
				DaysUsed:   shares[i],
			})
		}
	}
	return rows
}

// Consume locks the employee's valid lots as of the leave start date,
// plans the draw, decrements the lots and writes the per-day rows.
func (e *Engine) Consume(
	ctx context.Context,
	lotRepo lot.Repository,
	consRepo Repository,
	employeeID, requestID uuid.UUID,
	dates []time.Time,
	total decimal.Decimal,
) ([]LotAllocation, error) {
	if len(dates) == 0 || !total.IsPositive() {
		return nil, nil
	}

	lots, err := lotRepo.ValidLots(ctx, employeeID.String(), dates[0])
	if err != nil {
		return nil, err
	}

	allocs, err := Plan(lots, total)
	if err != nil {
		return nil, err
	}

	for _, a := range allocs {
		if err := lotRepo.AdjustRemaining(ctx, a.LotID.String(), a.Days.Neg()); err != nil {
			return nil, err
		}
	}

	rows := BuildRows(employeeID, requestID, dates, allocs)
	if err := consRepo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}

	e.logger.Debug("consumption applied",
		zap.String("request_id", requestID.String()),
		zap.String("total_days", total.String()),
		zap.Int("lots", len(allocs)),
		zap.Int("rows", len(rows)),
	)
	return allocs, nil
}

// Refund puts back exactly what the request drew from each lot and
// deletes the request's ledger rows. Refunds restore expired lots too;
// the days just become unusable again through the validity filter.
func (e *Engine) Refund(
	ctx context.Context,
	lotRepo lot.Repository,
	consRepo Repository,
	requestID uuid.UUID,
) error {
	allocs, err := consRepo.AllocationsByRequest(ctx, requestID.String())
	if err != nil {
		return err
	}
	// An approved request always has ledger rows; an empty refund means
	// the caller's state machine and the ledger disagree.
	if len(allocs) == 0 {
		return consumptionerrors.ErrNothingToRefund
	}

	for _, a := range allocs {
		if err := lotRepo.AdjustRemaining(ctx, a.LotID.String(), a.Days); err != nil {
			return err
		}
	}

	if err := consRepo.DeleteByRequest(ctx, requestID.String()); err != nil {
		return err
	}

	e.logger.Debug("consumption refunded",
		zap.String("request_id", requestID.String()),
		zap.Int("lots", len(allocs)),
	)
	return nil
}
