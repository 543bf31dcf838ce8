package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vitrine/internal/domain"
	"vitrine/internal/errors"
)

type MySQLAddressRepository struct {
	db *sql.DB
}

func NewMySQLAddressRepository(db *sql.DB) *MySQLAddressRepository {
	return &MySQLAddressRepository{db: db}
}

func (r *MySQLAddressRepository) Insert(ctx context.Context, tx *sql.Tx, address domain.Address) (uint, error) {
	query := `
		INSERT INTO Addresses (userId, recipientName, street, number, complement, neighborhood, city, state, postalCode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		address.UserID, address.RecipientName, address.Street, address.Number, address.Complement,
		address.Neighborhood, address.City, address.State, address.PostalCode,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting address: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLAddressRepository) FindByID(ctx context.Context, id uint) (*domain.Address, error) {
	query := `
		SELECT id, userId, recipientName, street, number, complement, neighborhood, city, state, postalCode, createdAt
		FROM Addresses
		WHERE id = ?
	`

	var a domain.Address
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.RecipientName, &a.Street, &a.Number, &a.Complement,
		&a.Neighborhood, &a.City, &a.State, &a.PostalCode, &a.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("address with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying address by id: %w", err)
	}

	return &a, nil
}
