package consumptionerrors

import (
	"net/http"

	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"not enough leave days remaining",
		http.StatusUnprocessableEntity,
	)
	ErrNothingToRefund = apperror.New(
		apperror.CodeInvalidState,
		"request has no consumption to refund",
		http.StatusBadRequest,
	)
)
