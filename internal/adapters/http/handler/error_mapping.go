package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	"github.com/ogurasousui/shift-scheduler/internal/core/shift"
)

type apiError struct {
	status  int
	code    string
	message string
}

const (
	codeInvalidRequest       = "invalid_request"
	codeNotFound             = "not_found"
	codeDirectoryUnavailable = "directory_unavailable"
	codeInternal             = "internal"
)

func toAPIError(err error) apiError {
	switch {
	case errors.Is(err, shift.ErrMissingTime):
		return apiError{http.StatusBadRequest, codeInvalidRequest, "Start and end time are required."}
	case errors.Is(err, shift.ErrStartAfterEnd):
		return apiError{http.StatusBadRequest, "start-after-end", "Start time must not be greater than end time."}
	case errors.Is(err, shift.ErrMultiDay):
		return apiError{http.StatusBadRequest, "multi-day", "Start and end time must be on the same day."}
	case errors.Is(err, shift.ErrShiftNotFound), errors.Is(err, shift.ErrInvalidID):
		return apiError{http.StatusNotFound, codeNotFound, "Shift not found."}
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, employee.ErrInvalidID):
		return apiError{http.StatusNotFound, codeNotFound, "Employee not found."}
	case errors.Is(err, shift.ErrAlreadyAssigned):
		return apiError{http.StatusBadRequest, "already-assigned", "This shift is already assigned to an employee."}
	case errors.Is(err, shift.ErrOverlap):
		return apiError{http.StatusBadRequest, "overlap", "Employee already has a shift that overlaps with this time."}
	case errors.Is(err, employee.ErrDirectoryUnavailable):
		return apiError{http.StatusBadGateway, codeDirectoryUnavailable, "employee directory unavailable"}
	default:
		return apiError{http.StatusInternalServerError, codeInternal, "internal server error"}
	}
}

// respondError はエラーを HTTP 応答に変換します。サーバー側の障害は記録のみ行い、内容は返しません。
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	apiErr := toAPIError(err)
	if apiErr.status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", apiErr.status),
			slog.Any("error", err),
		)
	}
	writeError(w, r, logger, apiErr.status, apiErr.code, apiErr.message)
}
