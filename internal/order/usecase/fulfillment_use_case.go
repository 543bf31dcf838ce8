package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/events"
	"vitrine/internal/notification"
	"vitrine/internal/order/service"
	"vitrine/internal/shipping"
)

type FulfillmentStore interface {
	ChangeOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (service.TransitionResult, error)
	AssignTracking(ctx context.Context, orderID uint, carrier domain.Carrier, code, trackingURL string, now time.Time) (service.TransitionResult, error)
	ChangeShipmentStatus(ctx context.Context, orderID uint, status domain.ShipmentStatus, now time.Time) (service.TransitionResult, error)
}

type FulfillmentUseCase struct {
	store    FulfillmentStore
	notifier Notifier
	shop     Store
	clock    func() time.Time
	logger   *zap.Logger
}

func NewFulfillmentUseCase(store FulfillmentStore, notifier Notifier, shop Store, logger *zap.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		store:    store,
		notifier: notifier,
		shop:     shop,
		clock:    time.Now,
		logger:   logger,
	}
}

func (uc *FulfillmentUseCase) UpdateOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string) (*domain.Order, error) {
	res, err := uc.store.ChangeOrderStatus(ctx, orderID, status, adminNotes, uc.clock().UTC())
	if err != nil {
		uc.logger.Warn("order status update rejected", zap.Uint("orderId", orderID), zap.String("status", string(status)), zap.Error(err))
		return nil, err
	}

	if res.OrderChanged {
		uc.notifyStatus(ctx, res, events.OrderStatusChanged, nil)
	}
	return res.Order, nil
}

// AssignTracking detects the carrier from the code unless one is given and
// stores the code with its tracking URL.
func (uc *FulfillmentUseCase) AssignTracking(ctx context.Context, orderID uint, code string, carrier domain.Carrier) (*domain.Shipment, *domain.Order, error) {
	code = shipping.NormalizeTrackingCode(code)
	if code == "" {
		return nil, nil, apperrors.NewValidationError("invalid tracking code", apperrors.ValidationDetail{
			Field:   "trackingCode",
			Message: "required field",
		})
	}
	if strings.TrimSpace(string(carrier)) == "" {
		carrier = shipping.DetectCarrier(code)
	}
	url := shipping.TrackingURL(carrier, code)

	res, err := uc.store.AssignTracking(ctx, orderID, carrier, code, url, uc.clock().UTC())
	if err != nil {
		uc.logger.Warn("tracking assignment rejected", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, nil, err
	}

	uc.notifyStatus(ctx, res, events.ShipmentTrackingAssigned, map[string]string{
		"carrier":      string(carrier),
		"trackingCode": code,
		"trackingUrl":  url,
	})
	return res.Shipment, res.Order, nil
}

func (uc *FulfillmentUseCase) UpdateShipmentStatus(ctx context.Context, orderID uint, status domain.ShipmentStatus) (*domain.Shipment, *domain.Order, error) {
	res, err := uc.store.ChangeShipmentStatus(ctx, orderID, status, uc.clock().UTC())
	if err != nil {
		uc.logger.Warn("shipment status update rejected", zap.Uint("orderId", orderID), zap.String("status", string(status)), zap.Error(err))
		return nil, nil, err
	}

	if res.ShipmentChanged {
		uc.notifyStatus(ctx, res, events.ShipmentStatusChanged, map[string]string{
			"shipmentStatus": string(status),
		})
	}
	return res.Shipment, res.Order, nil
}

// notifyStatus always publishes the event; the customer email goes out
// only when the order status itself moved.
func (uc *FulfillmentUseCase) notifyStatus(ctx context.Context, res service.TransitionResult, t events.Type, data map[string]string) {
	n := notification.Notification{
		Recipient: recipient(res.Order),
		Kind:      notification.KindOrderStatusUpdate,
		Data:      notificationData(uc.shop, res.Order, res.Shipment),
		Event:     orderEvent(t, res.Order, uc.clock().UTC(), data),
	}
	if !res.OrderChanged {
		n.Kind = ""
	}
	uc.notifier.DispatchAsync(ctx, n)
}
