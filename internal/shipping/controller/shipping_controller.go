package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/dto"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/response"
	"vitrine/internal/shipping"
	"vitrine/internal/validation"
)

type QuoteService interface {
	QuoteItems(ctx context.Context, lines []shipping.QuoteLine, destination string) (shipping.Quote, error)
}

type Tracker interface {
	Track(ctx context.Context, code string) shipping.TrackingResult
}

type ShippingController struct {
	quotes   QuoteService
	tracker  Tracker
	validate *validatorv10.Validate
	logger   *zap.Logger
}

func NewShippingController(quotes QuoteService, tracker Tracker, validate *validatorv10.Validate, logger *zap.Logger) *ShippingController {
	return &ShippingController{
		quotes:   quotes,
		tracker:  tracker,
		validate: validate,
		logger:   logger,
	}
}

func (c *ShippingController) Quote(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.QuoteRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}
	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	lines := make([]shipping.QuoteLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, shipping.QuoteLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	quote, err := c.quotes.QuoteItems(r.Context(), lines, req.DestinationPostalCode)
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	resp := dto.QuoteResponse{
		Options:  make([]dto.ShippingOptionDTO, 0, len(quote.Options)),
		Fallback: quote.Fallback,
	}
	for _, o := range quote.Options {
		resp.Options = append(resp.Options, dto.ShippingOptionDTO{
			ID:           o.ID,
			Carrier:      o.Carrier,
			Service:      o.Service,
			PriceCents:   o.PriceCents,
			DeliveryDays: o.DeliveryDays,
		})
	}

	logger.Info("shipping quoted",
		zap.Int("lines", len(lines)),
		zap.Int("options", len(resp.Options)),
		zap.Bool("fallback", resp.Fallback),
	)
	response.JSON(w, http.StatusOK, resp, logger)
}

func (c *ShippingController) Track(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	code := chi.URLParam(r, "code")
	if shipping.NormalizeTrackingCode(code) == "" {
		response.ValidationError(w, traceID, "invalid tracking code", logger, apperrors.ValidationDetail{
			Field:   "code",
			Message: "required field",
		})
		return
	}

	result := c.tracker.Track(r.Context(), code)

	resp := dto.TrackingResponse{
		Success:     result.Success,
		Code:        result.Code,
		Carrier:     string(result.Carrier),
		TrackingURL: result.TrackingURL,
		Status:      result.Status,
		Message:     result.Message,
		Events:      make([]dto.TrackingEventDTO, 0, len(result.Events)),
	}
	for _, e := range result.Events {
		resp.Events = append(resp.Events, dto.TrackingEventDTO{
			Status:      e.Status,
			Description: e.Description,
			Location:    e.Location,
			OccurredAt:  e.OccurredAt,
		})
	}

	response.JSON(w, http.StatusOK, resp, logger)
}
