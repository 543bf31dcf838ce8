package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	"vitrine/internal/dto"
	"vitrine/internal/order/usecase"
	"vitrine/internal/response"
	"vitrine/internal/session"
)

type OrderQueryUseCase interface {
	GetOrder(ctx context.Context, caller session.Principal, orderID uint) (*usecase.OrderDetails, error)
	ListMyOrders(ctx context.Context, caller session.Principal) ([]domain.Order, error)
}

type OrderController struct {
	useCase OrderQueryUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderQueryUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(w, r, traceID, logger)
	if !ok {
		return
	}

	details, err := c.useCase.GetOrder(r.Context(), caller, orderID)
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	response.JSON(w, http.StatusOK, toOrderResponse(details.Order, details.Shipment), logger)
}

func (c *OrderController) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}

	orders, err := c.useCase.ListMyOrders(r.Context(), caller)
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i], nil))
	}
	response.JSON(w, http.StatusOK, resp, logger)
}
