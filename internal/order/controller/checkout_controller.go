package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	"vitrine/internal/dto"
	"vitrine/internal/order/usecase"
	"vitrine/internal/response"
	"vitrine/internal/session"
	"vitrine/internal/validation"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, cmd usecase.CheckoutCommand) (*usecase.CheckoutResult, error)
}

type CheckoutController struct {
	useCase  CheckoutUseCase
	validate *validatorv10.Validate
	logger   *zap.Logger
}

func NewCheckoutController(useCase CheckoutUseCase, validate *validatorv10.Validate, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		useCase:  useCase,
		validate: validate,
		logger:   logger,
	}
}

// Checkout answers 201 whenever the order was created, including when the
// payment was refused; payment.success tells the two apart.
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}
	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	result, err := c.useCase.Checkout(r.Context(), toCheckoutCommand(req, caller))
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	order := result.Order
	response.JSON(w, http.StatusCreated, dto.CheckoutResponse{
		TraceID:       traceID,
		OrderID:       order.ID,
		Status:        string(order.Status),
		SubtotalCents: order.SubtotalCents,
		ShippingCents: order.ShippingCents,
		DiscountCents: order.DiscountCents,
		TotalCents:    order.TotalCents,
		Payment:       toPaymentDTO(result.Payment),
		Timestamp:     time.Now().UTC(),
	}, logger)
}

func toCheckoutCommand(req dto.CheckoutRequest, caller session.Principal) usecase.CheckoutCommand {
	cmd := usecase.CheckoutCommand{
		Customer:      caller,
		Lines:         make([]usecase.CheckoutLine, 0, len(req.Items)),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CustomerNotes: req.CustomerNotes,
	}
	for _, item := range req.Items {
		cmd.Lines = append(cmd.Lines, usecase.CheckoutLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if s := req.Shipping; s != nil {
		cmd.Shipping = &usecase.ShippingChoice{
			Service:    s.Service,
			Carrier:    s.Carrier,
			PriceCents: s.PriceCents,
		}
	}
	if a := req.Address; a != nil {
		cmd.Address = &domain.Address{
			RecipientName: strings.TrimSpace(a.RecipientName),
			Street:        strings.TrimSpace(a.Street),
			Number:        strings.TrimSpace(a.Number),
			Complement:    a.Complement,
			Neighborhood:  strings.TrimSpace(a.Neighborhood),
			City:          strings.TrimSpace(a.City),
			State:         a.State,
			PostalCode:    validation.NormalizePostalCode(a.PostalCode),
		}
	}
	return cmd
}
