package usecase

import (
	"context"
	"strconv"
	"time"

	"vitrine/internal/domain"
	"vitrine/internal/events"
	"vitrine/internal/notification"
)

type Notifier interface {
	DispatchAsync(ctx context.Context, n notification.Notification) <-chan bool
}

// Store identifies the shop in outgoing emails.
type Store struct {
	Name    string
	BaseURL string
}

func notificationData(store Store, order *domain.Order, shipment *domain.Shipment) notification.Data {
	data := notification.Data{
		StoreName:     store.Name,
		StoreURL:      store.BaseURL,
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		SubtotalCents: order.SubtotalCents,
		ShippingCents: order.ShippingCents,
		DiscountCents: order.DiscountCents,
		TotalCents:    order.TotalCents,
		PaymentMethod: order.PaymentMethod,
		Address:       order.Address,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
	}
	if order.ShippingService != nil {
		data.ShippingService = *order.ShippingService
	}
	if order.ShippingCarrier != nil {
		data.ShippingCarrier = *order.ShippingCarrier
	}
	if order.CustomerNotes != nil {
		data.CustomerNotes = *order.CustomerNotes
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, notification.ItemLine{
			Name:           item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	if shipment != nil {
		data.TrackingCode = shipment.TrackingCode
		data.TrackingURL = shipment.TrackingURL
	}
	return data
}

func orderEvent(t events.Type, order *domain.Order, now time.Time, data map[string]string) *events.Event {
	if data == nil {
		data = map[string]string{}
	}
	data["totalCents"] = strconv.FormatInt(order.TotalCents, 10)
	return &events.Event{
		Type:       t,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Data:       data,
		OccurredAt: now,
	}
}

func recipient(order *domain.Order) notification.Recipient {
	return notification.Recipient{Name: order.CustomerName, Email: order.CustomerEmail}
}
