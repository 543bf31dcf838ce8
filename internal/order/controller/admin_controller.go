package controller

import (
	"context"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	"vitrine/internal/dto"
	"vitrine/internal/response"
	"vitrine/internal/validation"
)

type FulfillmentUseCase interface {
	UpdateOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string) (*domain.Order, error)
	AssignTracking(ctx context.Context, orderID uint, code string, carrier domain.Carrier) (*domain.Shipment, *domain.Order, error)
	UpdateShipmentStatus(ctx context.Context, orderID uint, status domain.ShipmentStatus) (*domain.Shipment, *domain.Order, error)
}

// AdminController serves /admin/orders. Routes are mounted behind
// session.RequireAdmin.
type AdminController struct {
	useCase  FulfillmentUseCase
	validate *validatorv10.Validate
	logger   *zap.Logger
}

func NewAdminController(useCase FulfillmentUseCase, validate *validatorv10.Validate, logger *zap.Logger) *AdminController {
	return &AdminController{
		useCase:  useCase,
		validate: validate,
		logger:   logger,
	}
}

func (c *AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := orderIDParam(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}
	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	order, err := c.useCase.UpdateOrderStatus(r.Context(), orderID, domain.OrderStatus(req.Status), req.AdminNotes)
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	logger.Info("order status updated by admin", zap.Uint("orderId", orderID), zap.String("status", string(order.Status)))
	response.JSON(w, http.StatusOK, toOrderResponse(order, nil), logger)
}

func (c *AdminController) AssignTracking(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := orderIDParam(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.AssignTrackingRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}
	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	shipment, order, err := c.useCase.AssignTracking(r.Context(), orderID, req.TrackingCode, domain.Carrier(req.Carrier))
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	response.JSON(w, http.StatusOK, toOrderResponse(order, shipment), logger)
}

func (c *AdminController) UpdateShipmentStatus(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := orderIDParam(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.UpdateShipmentStatusRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}
	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	shipment, order, err := c.useCase.UpdateShipmentStatus(r.Context(), orderID, domain.ShipmentStatus(req.Status))
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	response.JSON(w, http.StatusOK, toOrderResponse(order, shipment), logger)
}
