package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitrine/internal/dto"
	apperrors "vitrine/internal/errors"
)

func NewTraceID() string {
	return uuid.New().String()
}

func JSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func ValidationError(w http.ResponseWriter, traceID string, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	JSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}, logger)
}

func Error(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger) {
	JSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// AppError maps a typed application error to its HTTP status and code.
// Anything unrecognised is logged and reported as a 500 without details.
func AppError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		ValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		Error(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		Error(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		Error(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		Error(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsProviderUnavailableError(err); ok {
		logger.Warn("provider unavailable", zap.Error(err))
		Error(w, traceID, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", "an external provider is unavailable, try again later", logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	Error(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

// DecodeJSON decodes the request body, writing a validation error on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, traceID string, out interface{}, logger *zap.Logger) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		ValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}
