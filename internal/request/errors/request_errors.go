package requesterrors

import (
	"net/http"

	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"time off request not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrHoursRequired = apperror.New(
		apperror.CodeInvalidInput,
		"used_days with hour totals is required for HOUR unit requests",
		http.StatusBadRequest,
	)
	ErrTotalTooSmall = apperror.New(
		apperror.CodeInvalidInput,
		"derived total is below the half-day minimum",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid request status transition",
		http.StatusBadRequest,
	)
	ErrForceRequired = apperror.New(
		apperror.CodeForbidden,
		"modifying a finalized request requires force",
		http.StatusForbidden,
	)
	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		"caller is not allowed to force-modify requests",
		http.StatusForbidden,
	)
)
