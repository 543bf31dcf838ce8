package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/session"
)

const myOrdersLimit = 50

type OrderReader interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

type OrderItemReader interface {
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type AddressReader interface {
	FindByID(ctx context.Context, id uint) (*domain.Address, error)
}

type ShipmentReader interface {
	FindByOrderID(ctx context.Context, orderID uint) (*domain.Shipment, error)
}

// OrderDetails is an order with everything the order page shows.
type OrderDetails struct {
	Order    *domain.Order
	Shipment *domain.Shipment
}

type OrderQueryUseCase struct {
	orders    OrderReader
	items     OrderItemReader
	addresses AddressReader
	shipments ShipmentReader
	logger    *zap.Logger
}

func NewOrderQueryUseCase(orders OrderReader, items OrderItemReader, addresses AddressReader, shipments ShipmentReader, logger *zap.Logger) *OrderQueryUseCase {
	return &OrderQueryUseCase{
		orders:    orders,
		items:     items,
		addresses: addresses,
		shipments: shipments,
		logger:    logger,
	}
}

// GetOrder returns the order when the caller owns it or is an admin.
// Other callers get NotFound so order ids stay private.
func (uc *OrderQueryUseCase) GetOrder(ctx context.Context, caller session.Principal, orderID uint) (*OrderDetails, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID && !caller.IsAdmin() {
		uc.logger.Warn("order access denied", zap.Uint("orderId", orderID), zap.String("userId", caller.ID))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", orderID))
	}

	items, err := uc.items.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	if order.AddressID != nil {
		address, err := uc.addresses.FindByID(ctx, *order.AddressID)
		if err != nil {
			return nil, err
		}
		order.Address = address
	}

	details := &OrderDetails{Order: order}
	shipment, err := uc.shipments.FindByOrderID(ctx, orderID)
	if err == nil {
		details.Shipment = shipment
	} else if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	return details, nil
}

// ListMyOrders returns the caller's most recent orders without items.
func (uc *OrderQueryUseCase) ListMyOrders(ctx context.Context, caller session.Principal) ([]domain.Order, error) {
	return uc.orders.ListByUserID(ctx, caller.ID, myOrdersLimit)
}
