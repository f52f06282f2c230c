package loterrors

import (
	"net/http"

	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

var (
	ErrLotNotFound = apperror.New(
		apperror.CodeNotFound,
		"grant lot not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidGrantDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid grant date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNotAGrantDay = apperror.New(
		apperror.CodeInvalidInput,
		"date is not a grant date for this employee",
		http.StatusBadRequest,
	)
	ErrNoGrantDue = apperror.New(
		apperror.CodeInvalidState,
		"no grant is due for this employee at the given date",
		http.StatusBadRequest,
	)
)
