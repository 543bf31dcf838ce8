package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/dto"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/response"
	"vitrine/internal/validation"
)

type Restocker interface {
	Restock(ctx context.Context, productID, quantity int) error
}

// StockController exposes the manual stock adjustment. Admin only.
type StockController struct {
	ledger   Restocker
	validate *validatorv10.Validate
	logger   *zap.Logger
}

func NewStockController(ledger Restocker, validate *validatorv10.Validate, logger *zap.Logger) *StockController {
	return &StockController{
		ledger:   ledger,
		validate: validate,
		logger:   logger,
	}
}

func (c *StockController) Restock(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil || id <= 0 {
		response.ValidationError(w, traceID, "invalid productId", logger, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	var req dto.RestockRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}
	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	if err := c.ledger.Restock(r.Context(), id, req.Quantity); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	response.JSON(w, http.StatusOK, dto.RestockResponse{ProductID: id, Added: req.Quantity}, logger)
}
