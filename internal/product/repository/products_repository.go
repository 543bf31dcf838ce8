package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vitrine/internal/domain"
	"vitrine/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `id, creatorId, slug, name, kind, priceCents, compareAtPriceCents, active,
	       stockQuantity, weightGrams, heightCm, widthCm, lengthCm, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var kind string
	err := row.Scan(
		&p.ID, &p.CreatorID, &p.Slug, &p.Name, &kind, &p.PriceCents, &p.CompareAtPriceCents, &p.Active,
		&p.StockQuantity, &p.WeightGrams, &p.HeightCm, &p.WidthCm, &p.LengthCm,
		&p.CreatedAt, &p.UpdatedAt,
	)
	p.Kind = domain.ProductKind(kind)
	return p, err
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`SELECT %s FROM Product WHERE id IN (%s) ORDER BY id`,
		productColumns,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// DecrementStock applies the guarded decrement inside tx. It returns false
// when no row matched, either because the product does not exist, is not
// physical, or has less than quantity in stock.
func (r *MySQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, id int, quantity int) (bool, error) {
	query := `
		UPDATE Product
		SET stockQuantity = stockQuantity - ?
		WHERE id = ? AND kind = 'physical' AND stockQuantity >= ?
	`

	result, err := tx.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return false, fmt.Errorf("decrementing product stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// StockQuantity reads the current stock inside tx. A NULL stock reads as 0.
func (r *MySQLRepository) StockQuantity(ctx context.Context, tx *sql.Tx, id int) (int, error) {
	var stock sql.NullInt64
	err := tx.QueryRowContext(ctx, `SELECT stockQuantity FROM Product WHERE id = ?`, id).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return 0, fmt.Errorf("querying product stock: %w", err)
	}

	return int(stock.Int64), nil
}

func (r *MySQLRepository) IncrementStock(ctx context.Context, id int, quantity int) error {
	query := `UPDATE Product SET stockQuantity = COALESCE(stockQuantity, 0) + ? WHERE id = ? AND kind = 'physical'`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("incrementing product stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("physical product with id %d not found", id))
	}

	return nil
}
