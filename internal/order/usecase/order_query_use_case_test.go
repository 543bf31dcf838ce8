package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/session"
)

type mockOrderReader struct {
	FindByIDFunc     func(ctx context.Context, id uint) (*domain.Order, error)
	ListByUserIDFunc func(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

func (m *mockOrderReader) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderReader) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	return m.ListByUserIDFunc(ctx, userID, limit)
}

type mockOrderItemReader struct {
	FindByOrderIDFunc func(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

func (m *mockOrderItemReader) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

type mockAddressReader struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Address, error)
}

func (m *mockAddressReader) FindByID(ctx context.Context, id uint) (*domain.Address, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockShipmentReader struct {
	FindByOrderIDFunc func(ctx context.Context, orderID uint) (*domain.Shipment, error)
}

func (m *mockShipmentReader) FindByOrderID(ctx context.Context, orderID uint) (*domain.Shipment, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

func newQueryUseCase(shipmentErr error) *OrderQueryUseCase {
	addressID := uint(3)
	return NewOrderQueryUseCase(
		&mockOrderReader{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
				if id != 7 {
					return nil, apperrors.NewNotFoundError("order not found")
				}
				return &domain.Order{ID: 7, UserID: "user-1", AddressID: &addressID, Status: domain.OrderStatusShipped}, nil
			},
			ListByUserIDFunc: func(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
				return []domain.Order{{ID: 7, UserID: userID}}, nil
			},
		},
		&mockOrderItemReader{
			FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
				return []domain.OrderItem{{OrderID: orderID, ProductID: 5, Quantity: 2}}, nil
			},
		},
		&mockAddressReader{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Address, error) {
				return &domain.Address{ID: id, City: "Belo Horizonte"}, nil
			},
		},
		&mockShipmentReader{
			FindByOrderIDFunc: func(ctx context.Context, orderID uint) (*domain.Shipment, error) {
				if shipmentErr != nil {
					return nil, shipmentErr
				}
				return &domain.Shipment{OrderID: orderID, TrackingCode: "AA123456789BR"}, nil
			},
		},
		zap.NewNop(),
	)
}

func TestGetOrder_Owner(t *testing.T) {
	uc := newQueryUseCase(nil)

	details, err := uc.GetOrder(context.Background(), session.Principal{ID: "user-1"}, 7)
	require.NoError(t, err)

	assert.Len(t, details.Order.Items, 1)
	require.NotNil(t, details.Order.Address)
	assert.Equal(t, "Belo Horizonte", details.Order.Address.City)
	require.NotNil(t, details.Shipment)
	assert.Equal(t, "AA123456789BR", details.Shipment.TrackingCode)
}

func TestGetOrder_AdminSeesAnyOrder(t *testing.T) {
	uc := newQueryUseCase(apperrors.NewNotFoundError("shipment not found"))

	details, err := uc.GetOrder(context.Background(), session.Principal{ID: "admin-1", Role: session.RoleAdmin}, 7)
	require.NoError(t, err)
	assert.Nil(t, details.Shipment)
}

func TestGetOrder_OtherCustomerGetsNotFound(t *testing.T) {
	uc := newQueryUseCase(nil)

	_, err := uc.GetOrder(context.Background(), session.Principal{ID: "user-2"}, 7)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestGetOrder_ShipmentLookupError(t *testing.T) {
	uc := newQueryUseCase(errors.New("connection reset"))

	_, err := uc.GetOrder(context.Background(), session.Principal{ID: "user-1"}, 7)
	assert.EqualError(t, err, "connection reset")
}

func TestListMyOrders(t *testing.T) {
	uc := newQueryUseCase(nil)

	orders, err := uc.ListMyOrders(context.Background(), session.Principal{ID: "user-9"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "user-9", orders[0].UserID)
}
