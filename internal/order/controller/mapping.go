package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	"vitrine/internal/dto"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/payment"
	"vitrine/internal/response"
	"vitrine/internal/session"
)

// orderIDParam parses {orderId}, writing a 400 when it is not a positive
// integer.
func orderIDParam(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil || id == 0 {
		logger.Warn("invalid orderId in path", zap.String("orderId", chi.URLParam(r, "orderId")))
		response.ValidationError(w, traceID, "invalid orderId", logger, apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func principal(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (session.Principal, bool) {
	p, ok := session.FromContext(r.Context())
	if !ok {
		response.Error(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", logger)
	}
	return p, ok
}

func toPaymentDTO(r payment.Result) dto.PaymentResultDTO {
	out := dto.PaymentResultDTO{
		Success:             r.Success,
		Status:              string(r.Status),
		Message:             r.Message,
		TransactionID:       optional(r.Reference),
		PixQrCode:           optional(r.PixQRCode),
		PixQrCodeImage:      optional(r.PixQRCodeImage),
		BoletoBarcode:       optional(r.BoletoBarcode),
		BoletoDigitableLine: optional(r.BoletoDigitableLine),
		BoletoURL:           optional(r.BoletoURL),
	}
	if r.BoletoDueDate != nil {
		due := r.BoletoDueDate.Format("2006-01-02")
		out.BoletoDueDate = &due
	}
	return out
}

func toOrderResponse(o *domain.Order, s *domain.Shipment) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:              o.ID,
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		PaymentMethod:   string(o.PaymentMethod),
		SubtotalCents:   o.SubtotalCents,
		ShippingCents:   o.ShippingCents,
		DiscountCents:   o.DiscountCents,
		TotalCents:      o.TotalCents,
		ShippingService: o.ShippingService,
		ShippingCarrier: o.ShippingCarrier,
		CustomerNotes:   o.CustomerNotes,
		AdminNotes:      o.AdminNotes,
		Items:           make([]dto.OrderItemDTO, 0, len(o.Items)),
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	if a := o.Address; a != nil {
		resp.Address = &dto.AddressDTO{
			RecipientName: a.RecipientName,
			Street:        a.Street,
			Number:        a.Number,
			Complement:    a.Complement,
			Neighborhood:  a.Neighborhood,
			City:          a.City,
			State:         a.State,
			PostalCode:    a.PostalCode,
		}
	}
	if s != nil {
		resp.Shipment = &dto.ShipmentDTO{
			Carrier:      string(s.Carrier),
			TrackingCode: s.TrackingCode,
			TrackingURL:  s.TrackingURL,
			Status:       string(s.Status),
			StatusLabel:  s.Status.Label(),
			UpdatedAt:    s.UpdatedAt,
		}
	}
	return resp
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
