package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type AddressRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, address domain.Address) (uint, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, order *domain.Order) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
}

type ShipmentRepository interface {
	FindByOrderIDForUpdate(ctx context.Context, tx *sql.Tx, orderID uint) (*domain.Shipment, error)
	Insert(ctx context.Context, tx *sql.Tx, shipment domain.Shipment) (uint, error)
	Update(ctx context.Context, tx *sql.Tx, shipment domain.Shipment) error
}

const persistContention = "order persistence contention"

// PersistenceService owns every multi-row write on orders. Each public
// method runs in one transaction and is retried on deadlock.
type PersistenceService struct {
	db            TransactionManager
	addressRepo   AddressRepository
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	shipmentRepo  ShipmentRepository
	logger        *zap.Logger
	txTimeout     time.Duration
	maxAttempts   int
}

func NewPersistenceService(
	db TransactionManager,
	addressRepo AddressRepository,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	shipmentRepo ShipmentRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxAttempts int,
) *PersistenceService {
	return &PersistenceService{
		db:            db,
		addressRepo:   addressRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		shipmentRepo:  shipmentRepo,
		logger:        logger,
		txTimeout:     txTimeout,
		maxAttempts:   maxAttempts,
	}
}

// inTx runs fn inside a transaction bounded by txTimeout, retrying the whole
// transaction on deadlock. fn must be safe to run more than once.
func (s *PersistenceService) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	err := mysql.WithDeadlockRetry(ctx, s.maxAttempts, s.logger, op, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
		defer cancel()

		tx, err := s.db.BeginTx(txCtx, nil)
		if err != nil {
			s.logger.Error("failed to begin transaction", zap.String("op", op), zap.Error(err))
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			s.logger.Error("failed to commit transaction", zap.String("op", op), zap.Error(err))
			return fmt.Errorf("committing transaction: %w", err)
		}
		return nil
	})

	if mysql.IsDeadlock(err) {
		s.logger.Error("deadlock retries exhausted", zap.String("op", op), zap.Error(err))
		return apperrors.NewConflictError(persistContention)
	}
	return err
}

// PersistOrder writes the address snapshot (when present), the order and its
// items in that order. IDs are set on the arguments only after commit.
func (s *PersistenceService) PersistOrder(ctx context.Context, address *domain.Address, order *domain.Order) error {
	if order == nil || len(order.Items) == 0 {
		return apperrors.NewValidationError("order has no items")
	}

	var addressID, orderID uint
	itemIDs := make([]uint, len(order.Items))

	err := s.inTx(ctx, "persist order", func(ctx context.Context, tx *sql.Tx) error {
		row := *order
		row.AddressID = nil

		if address != nil {
			id, err := s.addressRepo.Insert(ctx, tx, *address)
			if err != nil {
				return err
			}
			addressID = id
			row.AddressID = &addressID
		}

		id, err := s.orderRepo.Insert(ctx, tx, &row)
		if err != nil {
			return err
		}
		orderID = id

		for i, item := range order.Items {
			item.OrderID = orderID
			itemID, err := s.orderItemRepo.Insert(ctx, tx, item)
			if err != nil {
				return err
			}
			itemIDs[i] = itemID
		}
		return nil
	})
	if err != nil {
		return err
	}

	if address != nil {
		address.ID = addressID
		order.AddressID = &addressID
		order.Address = address
	}
	order.ID = orderID
	for i := range order.Items {
		order.Items[i].ID = itemIDs[i]
		order.Items[i].OrderID = orderID
	}

	s.logger.Info("order persisted",
		zap.Uint("orderId", orderID),
		zap.Int("itemCount", len(order.Items)),
		zap.Int64("totalCents", order.TotalCents),
	)
	return nil
}
