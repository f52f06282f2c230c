package lot

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	loterrors "github.com/sawa0358/hr-system-2025-sub003/internal/lot/errors"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/apperror"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("lot.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("lot.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("lot request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employee_id query parameter is required", nil)
		return
	}

	resp, err := h.service.GetByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Grant(c *gin.Context) {
	var req GrantLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http grant lot validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	grantDate, err := time.Parse("2006-01-02", req.GrantDate)
	if err != nil {
		h.writeServiceError(c, loterrors.ErrInvalidGrantDate)
		return
	}

	resp, err := h.service.CreateLot(c.Request.Context(), req.EmployeeID, grantDate)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Backfill(c *gin.Context) {
	// An empty body sweeps every active employee.
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.logger.Warn("http backfill validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Backfill(c.Request.Context(), req.EmployeeID, time.Now().UTC())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
