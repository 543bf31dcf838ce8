package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vitrine/internal/domain"
)

type MySQLPaymentAttemptRepository struct {
	db *sql.DB
}

func NewMySQLPaymentAttemptRepository(db *sql.DB) *MySQLPaymentAttemptRepository {
	return &MySQLPaymentAttemptRepository{db: db}
}

func (r *MySQLPaymentAttemptRepository) Insert(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO PaymentAttempts (orderId, provider, reference, method, status, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		attempt.OrderID, attempt.Provider, attempt.Reference,
		string(attempt.Method), string(attempt.Status), truncate(attempt.Message, 255),
	)
	if err != nil {
		return fmt.Errorf("inserting payment attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	attempt.ID = uint(id)
	return nil
}

func (r *MySQLPaymentAttemptRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.PaymentAttempt, error) {
	query := `
		SELECT id, orderId, provider, reference, method, status, message, createdAt
		FROM PaymentAttempts
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying payment attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.PaymentAttempt
	for rows.Next() {
		var a domain.PaymentAttempt
		var method, status string
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Provider, &a.Reference, &method, &status, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment attempt: %w", err)
		}
		a.Method = domain.PaymentMethod(method)
		a.Status = domain.PaymentStatus(status)
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
