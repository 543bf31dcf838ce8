package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vitrine/internal/domain"
	"vitrine/internal/errors"
)

type MySQLShipmentRepository struct {
	db *sql.DB
}

func NewMySQLShipmentRepository(db *sql.DB) *MySQLShipmentRepository {
	return &MySQLShipmentRepository{db: db}
}

const shipmentColumns = `id, orderId, carrier, trackingCode, trackingUrl, status, createdAt, updatedAt`

func scanShipment(row rowScanner) (domain.Shipment, error) {
	var s domain.Shipment
	var carrier, status string
	err := row.Scan(&s.ID, &s.OrderID, &carrier, &s.TrackingCode, &s.TrackingURL, &status, &s.CreatedAt, &s.UpdatedAt)
	s.Carrier = domain.Carrier(carrier)
	s.Status = domain.ShipmentStatus(status)
	return s, err
}

func (r *MySQLShipmentRepository) FindByOrderID(ctx context.Context, orderID uint) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM Shipments WHERE orderId = ?`

	s, err := scanShipment(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("shipment for order %d not found", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying shipment by order id: %w", err)
	}

	return &s, nil
}

func (r *MySQLShipmentRepository) FindByOrderIDForUpdate(ctx context.Context, tx *sql.Tx, orderID uint) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM Shipments WHERE orderId = ? FOR UPDATE`

	s, err := scanShipment(tx.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("shipment for order %d not found", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying shipment by order id for update: %w", err)
	}

	return &s, nil
}

func (r *MySQLShipmentRepository) Insert(ctx context.Context, tx *sql.Tx, s domain.Shipment) (uint, error) {
	query := `
		INSERT INTO Shipments (orderId, carrier, trackingCode, trackingUrl, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, s.OrderID, string(s.Carrier), s.TrackingCode, s.TrackingURL, string(s.Status))
	if err != nil {
		return 0, fmt.Errorf("inserting shipment: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLShipmentRepository) Update(ctx context.Context, tx *sql.Tx, s domain.Shipment) error {
	query := `
		UPDATE Shipments
		SET carrier = ?, trackingCode = ?, trackingUrl = ?, status = ?
		WHERE id = ?
	`

	if _, err := tx.ExecContext(ctx, query, string(s.Carrier), s.TrackingCode, s.TrackingURL, string(s.Status), s.ID); err != nil {
		return fmt.Errorf("updating shipment: %w", err)
	}

	return nil
}
