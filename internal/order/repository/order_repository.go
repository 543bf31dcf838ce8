package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vitrine/internal/domain"
	"vitrine/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, userId, customerName, customerEmail, addressId, subtotalCents, shippingCents,
	       discountCents, totalCents, paymentMethod, shippingService, shippingCarrier, status, adminNotes,
	       customerNotes, paidAt, shippedAt, deliveredAt, cancelledAt, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var method, status string
	err := row.Scan(
		&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.AddressID, &o.SubtotalCents, &o.ShippingCents,
		&o.DiscountCents, &o.TotalCents, &method, &o.ShippingService, &o.ShippingCarrier, &status, &o.AdminNotes,
		&o.CustomerNotes, &o.PaidAt, &o.ShippedAt, &o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	o.PaymentMethod = domain.PaymentMethod(method)
	o.Status = domain.OrderStatus(status)
	return o, err
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (userId, customerName, customerEmail, addressId, subtotalCents, shippingCents,
		                    discountCents, totalCents, paymentMethod, shippingService, shippingCarrier, status,
		                    customerNotes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.UserID, order.CustomerName, order.CustomerEmail, order.AddressID, order.SubtotalCents,
		order.ShippingCents, order.DiscountCents, order.TotalCents, string(order.PaymentMethod),
		order.ShippingService, order.ShippingCarrier, string(order.Status), order.CustomerNotes,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

// FindByIDForUpdate locks the order row until tx ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ? FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id for update: %w", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT ` + orderColumns + ` FROM Orders WHERE userId = ? ORDER BY createdAt DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying orders by user: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// UpdateStatus writes the mutable part of an order: status, admin notes and
// the lifecycle timestamps.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		UPDATE Orders
		SET status = ?, adminNotes = ?, paidAt = ?, shippedAt = ?, deliveredAt = ?, cancelledAt = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		string(order.Status), order.AdminNotes, order.PaidAt, order.ShippedAt,
		order.DeliveredAt, order.CancelledAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	// MySQL reports 0 affected rows when nothing changed, so only a missing
	// row is an error here.
	if rowsAffected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM Orders WHERE id = ?)`, order.ID).Scan(&exists); err != nil {
			return fmt.Errorf("checking order existence: %w", err)
		}
		if !exists {
			return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", order.ID))
		}
	}

	return nil
}
