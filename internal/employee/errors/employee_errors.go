package employeeerrors

import (
	"net/http"

	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee number already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid join date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrWeeklyPatternRequired = apperror.New(
		apperror.CodeInvalidInput,
		"weekly_pattern is required for part-time vacation patterns",
		http.StatusBadRequest,
	)
	ErrInvalidVacationPattern = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid vacation pattern",
		http.StatusBadRequest,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"Employee is not active",
		http.StatusBadRequest,
	)
)
