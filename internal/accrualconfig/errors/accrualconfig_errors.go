package accrualconfigerrors

import (
	"net/http"

	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

var (
	ErrVersionRequired = apperror.New(
		apperror.CodeInvalidInput,
		"config version is required",
		http.StatusBadRequest,
	)
	ErrConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"accrual config not found",
		http.StatusNotFound,
	)
	ErrEmptyGrantTable = apperror.New(
		apperror.CodeInvalidInput,
		"grant table must contain at least one row",
		http.StatusBadRequest,
	)
	ErrInvalidGrantTable = apperror.New(
		apperror.CodeInvalidInput,
		"grant table rows must have non-negative years and days",
		http.StatusBadRequest,
	)
	ErrInvalidSchedule = apperror.New(
		apperror.CodeInvalidInput,
		"initial and cycle months must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidWeeklyPattern = apperror.New(
		apperror.CodeInvalidInput,
		"weekly pattern must be between 1 and 4",
		http.StatusBadRequest,
	)
)
