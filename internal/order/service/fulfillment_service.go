package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
)

// TransitionResult is the state after a fulfillment write. The Changed flags
// tell the caller which notifications are due.
type TransitionResult struct {
	Order           *domain.Order
	Shipment        *domain.Shipment
	OrderChanged    bool
	ShipmentCreated bool
	ShipmentChanged bool
}

// ChangeOrderStatus moves the order to status when the transition table
// allows it. Admin notes are replaced when given, even without a status
// change.
func (s *PersistenceService) ChangeOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus, adminNotes *string, now time.Time) (TransitionResult, error) {
	if !status.Valid() {
		return TransitionResult{}, invalidStatus(string(status))
	}

	var result TransitionResult
	err := s.inTx(ctx, "change order status", func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if !domain.CanTransitionOrder(order.Status, status) {
			return apperrors.NewConflictError(fmt.Sprintf("order %d cannot move from %s to %s", orderID, order.Status, status))
		}

		changed := order.Status != status
		if changed {
			order.ApplyStatus(status, now)
		}
		if adminNotes != nil {
			order.AdminNotes = adminNotes
		}
		if changed || adminNotes != nil {
			if err := s.orderRepo.UpdateStatus(ctx, tx, order); err != nil {
				return err
			}
		}

		result = TransitionResult{Order: order, OrderChanged: changed}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}

	if result.OrderChanged {
		s.logger.Info("order status changed", zap.Uint("orderId", orderID), zap.String("status", string(status)))
	}
	return result, nil
}

// AssignTracking creates the shipment on the first call, in ETIQUETA_GERADA,
// and moves the order to POSTADO when it has not got that far yet. Later
// calls replace the code on the existing shipment.
func (s *PersistenceService) AssignTracking(ctx context.Context, orderID uint, carrier domain.Carrier, code, trackingURL string, now time.Time) (TransitionResult, error) {
	var result TransitionResult
	err := s.inTx(ctx, "assign tracking", func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusCancelled || order.Status == domain.OrderStatusRefunded {
			return apperrors.NewConflictError(fmt.Sprintf("order %d is %s", orderID, order.Status))
		}
		if order.ShippingService == nil {
			return apperrors.NewConflictError(fmt.Sprintf("order %d has nothing to ship", orderID))
		}

		shipment, err := s.shipmentRepo.FindByOrderIDForUpdate(ctx, tx, orderID)
		if _, notFound := apperrors.IsNotFoundError(err); notFound {
			created := domain.Shipment{
				OrderID:      orderID,
				Carrier:      carrier,
				TrackingCode: code,
				TrackingURL:  trackingURL,
				Status:       domain.ShipmentStatusLabelCreated,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			id, err := s.shipmentRepo.Insert(ctx, tx, created)
			if err != nil {
				return err
			}
			created.ID = id

			orderChanged := false
			if order.Status != domain.OrderStatusShipped && domain.CanTransitionOrder(order.Status, domain.OrderStatusShipped) {
				order.ApplyStatus(domain.OrderStatusShipped, now)
				if err := s.orderRepo.UpdateStatus(ctx, tx, order); err != nil {
					return err
				}
				orderChanged = true
			}

			result = TransitionResult{
				Order:           order,
				Shipment:        &created,
				OrderChanged:    orderChanged,
				ShipmentCreated: true,
				ShipmentChanged: true,
			}
			return nil
		}
		if err != nil {
			return err
		}

		shipment.Carrier = carrier
		shipment.TrackingCode = code
		shipment.TrackingURL = trackingURL
		shipment.UpdatedAt = now
		if err := s.shipmentRepo.Update(ctx, tx, *shipment); err != nil {
			return err
		}

		result = TransitionResult{Order: order, Shipment: shipment, ShipmentChanged: true}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}

	s.logger.Info("tracking assigned",
		zap.Uint("orderId", orderID),
		zap.String("carrier", string(carrier)),
		zap.Bool("shipmentCreated", result.ShipmentCreated),
		zap.Bool("orderChanged", result.OrderChanged),
	)
	return result, nil
}

// ChangeShipmentStatus moves the shipment along its own line. Reaching
// ENTREGUE also delivers the order.
func (s *PersistenceService) ChangeShipmentStatus(ctx context.Context, orderID uint, status domain.ShipmentStatus, now time.Time) (TransitionResult, error) {
	if !status.Valid() {
		return TransitionResult{}, invalidStatus(string(status))
	}

	var result TransitionResult
	err := s.inTx(ctx, "change shipment status", func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		shipment, err := s.shipmentRepo.FindByOrderIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if !domain.CanTransitionShipment(shipment.Status, status) {
			return apperrors.NewConflictError(fmt.Sprintf("shipment of order %d cannot move from %s to %s", orderID, shipment.Status, status))
		}
		if shipment.Status == status {
			result = TransitionResult{Order: order, Shipment: shipment}
			return nil
		}

		shipment.Status = status
		shipment.UpdatedAt = now
		if err := s.shipmentRepo.Update(ctx, tx, *shipment); err != nil {
			return err
		}

		orderChanged := false
		if status == domain.ShipmentStatusDelivered &&
			order.Status != domain.OrderStatusDelivered &&
			domain.CanTransitionOrder(order.Status, domain.OrderStatusDelivered) {
			order.ApplyStatus(domain.OrderStatusDelivered, now)
			if err := s.orderRepo.UpdateStatus(ctx, tx, order); err != nil {
				return err
			}
			orderChanged = true
		}

		result = TransitionResult{Order: order, Shipment: shipment, OrderChanged: orderChanged, ShipmentChanged: true}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}

	if result.ShipmentChanged {
		s.logger.Info("shipment status changed",
			zap.Uint("orderId", orderID),
			zap.String("status", string(status)),
			zap.Bool("orderChanged", result.OrderChanged),
		)
	}
	return result, nil
}

func invalidStatus(status string) error {
	return apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
		Field:   "status",
		Message: fmt.Sprintf("unknown status %q", status),
	})
}
