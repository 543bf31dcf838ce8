package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/events"
	"vitrine/internal/notification"
	"vitrine/internal/order/service"
)

type mockFulfillmentStore struct {
	ChangeOrderStatusFunc    func(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (service.TransitionResult, error)
	AssignTrackingFunc       func(ctx context.Context, orderID uint, carrier domain.Carrier, code, trackingURL string, now time.Time) (service.TransitionResult, error)
	ChangeShipmentStatusFunc func(ctx context.Context, orderID uint, status domain.ShipmentStatus, now time.Time) (service.TransitionResult, error)
}

func (m *mockFulfillmentStore) ChangeOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (service.TransitionResult, error) {
	return m.ChangeOrderStatusFunc(ctx, orderID, status, adminNotes, now)
}

func (m *mockFulfillmentStore) AssignTracking(ctx context.Context, orderID uint, carrier domain.Carrier, code, trackingURL string, now time.Time) (service.TransitionResult, error) {
	return m.AssignTrackingFunc(ctx, orderID, carrier, code, trackingURL, now)
}

func (m *mockFulfillmentStore) ChangeShipmentStatus(ctx context.Context, orderID uint, status domain.ShipmentStatus, now time.Time) (service.TransitionResult, error) {
	return m.ChangeShipmentStatusFunc(ctx, orderID, status, now)
}

func paidOrder() *domain.Order {
	service := "PAC"
	return &domain.Order{
		ID:              7,
		UserID:          "user-1",
		CustomerName:    "Ana",
		CustomerEmail:   "ana@example.com",
		TotalCents:      11590,
		PaymentMethod:   domain.PaymentMethodPix,
		ShippingService: &service,
		Status:          domain.OrderStatusPaid,
	}
}

func newFulfillment(store FulfillmentStore, notifier Notifier) *FulfillmentUseCase {
	uc := NewFulfillmentUseCase(store, notifier, Store{Name: "Vitrine"}, zap.NewNop())
	uc.clock = func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC) }
	return uc
}

func TestUpdateOrderStatus_NotifiesOnChange(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newFulfillment(&mockFulfillmentStore{
		ChangeOrderStatusFunc: func(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (service.TransitionResult, error) {
			order := paidOrder()
			order.ApplyStatus(status, now)
			return service.TransitionResult{Order: order, OrderChanged: true}, nil
		},
	}, notifier)

	order, err := uc.UpdateOrderStatus(context.Background(), 7, domain.OrderStatusPicking, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPicking, order.Status)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindOrderStatusUpdate, sent[0].Kind)
	assert.Equal(t, domain.OrderStatusPicking, sent[0].Data.Status)
	assert.Equal(t, events.OrderStatusChanged, sent[0].Event.Type)
	assert.Equal(t, "EM_SEPARACAO", sent[0].Event.Status)
}

func TestUpdateOrderStatus_NoopDoesNotNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newFulfillment(&mockFulfillmentStore{
		ChangeOrderStatusFunc: func(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (service.TransitionResult, error) {
			return service.TransitionResult{Order: paidOrder()}, nil
		},
	}, notifier)

	_, err := uc.UpdateOrderStatus(context.Background(), 7, domain.OrderStatusPaid, nil)
	require.NoError(t, err)
	assert.Empty(t, notifier.all())
}

func TestUpdateOrderStatus_Conflict(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newFulfillment(&mockFulfillmentStore{
		ChangeOrderStatusFunc: func(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (service.TransitionResult, error) {
			return service.TransitionResult{}, apperrors.NewConflictError("order 7 cannot move from ENTREGUE to AGUARDANDO_PAGAMENTO")
		},
	}, notifier)

	_, err := uc.UpdateOrderStatus(context.Background(), 7, domain.OrderStatusAwaitingPayment, nil)

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Empty(t, notifier.all())
}

func TestAssignTracking_DetectsCarrierAndURL(t *testing.T) {
	notifier := &recordingNotifier{}
	var gotCarrier domain.Carrier
	var gotCode, gotURL string
	uc := newFulfillment(&mockFulfillmentStore{
		AssignTrackingFunc: func(ctx context.Context, orderID uint, carrier domain.Carrier, code, trackingURL string, now time.Time) (service.TransitionResult, error) {
			gotCarrier, gotCode, gotURL = carrier, code, trackingURL
			order := paidOrder()
			order.ApplyStatus(domain.OrderStatusShipped, now)
			shipment := &domain.Shipment{OrderID: orderID, Carrier: carrier, TrackingCode: code, TrackingURL: trackingURL, Status: domain.ShipmentStatusLabelCreated}
			return service.TransitionResult{Order: order, Shipment: shipment, OrderChanged: true, ShipmentCreated: true, ShipmentChanged: true}, nil
		},
	}, notifier)

	shipment, order, err := uc.AssignTracking(context.Background(), 7, " aa123456789br ", "")
	require.NoError(t, err)

	assert.Equal(t, domain.CarrierCorreios, gotCarrier)
	assert.Equal(t, "AA123456789BR", gotCode)
	assert.Contains(t, gotURL, "AA123456789BR")
	assert.Equal(t, domain.ShipmentStatusLabelCreated, shipment.Status)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindOrderStatusUpdate, sent[0].Kind)
	assert.Equal(t, "AA123456789BR", sent[0].Data.TrackingCode)
	assert.Equal(t, events.ShipmentTrackingAssigned, sent[0].Event.Type)
	assert.Equal(t, "correios", sent[0].Event.Data["carrier"])
}

func TestAssignTracking_ExplicitCarrierAndUpdateOnlyPublishes(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newFulfillment(&mockFulfillmentStore{
		AssignTrackingFunc: func(ctx context.Context, orderID uint, carrier domain.Carrier, code, trackingURL string, now time.Time) (service.TransitionResult, error) {
			assert.Equal(t, domain.CarrierJadlog, carrier)
			order := paidOrder()
			order.Status = domain.OrderStatusShipped
			shipment := &domain.Shipment{OrderID: orderID, Carrier: carrier, TrackingCode: code, TrackingURL: trackingURL, Status: domain.ShipmentStatusInTransit}
			return service.TransitionResult{Order: order, Shipment: shipment, ShipmentChanged: true}, nil
		},
	}, notifier)

	_, _, err := uc.AssignTracking(context.Background(), 7, "JD0001", domain.CarrierJadlog)
	require.NoError(t, err)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.Kind(""), sent[0].Kind)
	assert.Equal(t, events.ShipmentTrackingAssigned, sent[0].Event.Type)
}

func TestAssignTracking_EmptyCode(t *testing.T) {
	uc := newFulfillment(&mockFulfillmentStore{}, &recordingNotifier{})

	_, _, err := uc.AssignTracking(context.Background(), 7, "   ", "")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateShipmentStatus_DeliveredNotifiesCustomer(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newFulfillment(&mockFulfillmentStore{
		ChangeShipmentStatusFunc: func(ctx context.Context, orderID uint, status domain.ShipmentStatus, now time.Time) (service.TransitionResult, error) {
			order := paidOrder()
			order.ApplyStatus(domain.OrderStatusDelivered, now)
			shipment := &domain.Shipment{OrderID: orderID, Status: status, TrackingCode: "AA123456789BR"}
			return service.TransitionResult{Order: order, Shipment: shipment, OrderChanged: true, ShipmentChanged: true}, nil
		},
	}, notifier)

	shipment, order, err := uc.UpdateShipmentStatus(context.Background(), 7, domain.ShipmentStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentStatusDelivered, shipment.Status)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindOrderStatusUpdate, sent[0].Kind)
	assert.Equal(t, events.ShipmentStatusChanged, sent[0].Event.Type)
	assert.Equal(t, "ENTREGUE", sent[0].Event.Data["shipmentStatus"])
}

func TestUpdateShipmentStatus_NotFound(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newFulfillment(&mockFulfillmentStore{
		ChangeShipmentStatusFunc: func(ctx context.Context, orderID uint, status domain.ShipmentStatus, now time.Time) (service.TransitionResult, error) {
			return service.TransitionResult{}, apperrors.NewNotFoundError("shipment for order 7 not found")
		},
	}, notifier)

	_, _, err := uc.UpdateShipmentStatus(context.Background(), 7, domain.ShipmentStatusInTransit)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Empty(t, notifier.all())
}
