package lot_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	loterrors "github.com/sawa0358/hr-system-2025-sub003/internal/lot/errors"
)

func TestAdjustRemaining(t *testing.T) {
	newRepo := func(t *testing.T) (lot.Repository, sqlmock.Sqlmock, func()) {
		t.Helper()
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)

		mock.ExpectBegin()
		tx, err := db.Begin()
		assert.NoError(t, err)

		return lot.NewRepository(nil).WithTx(tx), mock, func() {
			assert.NoError(t, mock.ExpectationsWereMet())
			db.Close()
		}
	}

	t.Run("success updates the matched lot", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE grant_lots")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdjustRemaining(context.Background(), uuid.NewString(), decimal.NewFromInt(-1))
		assert.NoError(t, err)
	})

	t.Run("negative unknown lot id", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE grant_lots")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AdjustRemaining(context.Background(), uuid.NewString(), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, loterrors.ErrLotNotFound)
	})
}
