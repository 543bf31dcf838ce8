package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	apperrors "vitrine/internal/errors"
	"vitrine/internal/infrastructure/mysql"
)

// Line is one reservation request: quantity units of a physical product.
type Line struct {
	ProductID int
	Quantity  int
}

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type StockRepository interface {
	DecrementStock(ctx context.Context, tx *sql.Tx, id int, quantity int) (bool, error)
	StockQuantity(ctx context.Context, tx *sql.Tx, id int) (int, error)
	IncrementStock(ctx context.Context, id int, quantity int) error
}

// MySQLLedger reserves stock with a single guarded UPDATE per line. All lines
// of one call share a transaction, so either every line is reserved or none.
type MySQLLedger struct {
	db          TransactionManager
	repo        StockRepository
	logger      *zap.Logger
	txTimeout   time.Duration
	maxAttempts int
}

func NewMySQLLedger(db TransactionManager, repo StockRepository, logger *zap.Logger, txTimeout time.Duration, maxAttempts int) *MySQLLedger {
	return &MySQLLedger{
		db:          db,
		repo:        repo,
		logger:      logger,
		txTimeout:   txTimeout,
		maxAttempts: maxAttempts,
	}
}

func (l *MySQLLedger) Reserve(ctx context.Context, productID, quantity int) error {
	return l.ReserveAll(ctx, []Line{{ProductID: productID, Quantity: quantity}})
}

func (l *MySQLLedger) ReserveAll(ctx context.Context, lines []Line) error {
	if err := checkLines(lines); err != nil {
		return err
	}
	// Lock rows in productId order so concurrent multi-line reservations
	// cannot deadlock on each other.
	sorted := sortedLines(lines)

	return mysql.WithDeadlockRetry(ctx, l.maxAttempts, l.logger, "reserve stock", func(ctx context.Context) error {
		return l.reserveOnce(ctx, sorted)
	})
}

func (l *MySQLLedger) reserveOnce(ctx context.Context, lines []Line) error {
	txCtx, cancel := context.WithTimeout(ctx, l.txTimeout)
	defer cancel()

	tx, err := l.db.BeginTx(txCtx, nil)
	if err != nil {
		l.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("beginning stock transaction: %w", err)
	}
	defer tx.Rollback()

	for _, line := range lines {
		ok, err := l.repo.DecrementStock(txCtx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		available, err := l.repo.StockQuantity(txCtx, tx, line.ProductID)
		if err != nil {
			return err
		}
		l.logger.Warn("insufficient stock",
			zap.Int("productId", line.ProductID),
			zap.Int("requested", line.Quantity),
			zap.Int("available", available),
		)
		return apperrors.NewInsufficientStockError(line.ProductID, line.Quantity, available)
	}

	if err := tx.Commit(); err != nil {
		l.logger.Error("failed to commit stock reservation", zap.Error(err))
		return fmt.Errorf("committing stock reservation: %w", err)
	}

	for _, line := range lines {
		l.logger.Info("stock reserved", zap.Int("productId", line.ProductID), zap.Int("quantity", line.Quantity))
	}
	return nil
}

// Restock is the manual admin adjustment. The checkout flow never calls it.
func (l *MySQLLedger) Restock(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		return apperrors.NewValidationError("quantity must be positive", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "must be greater than 0",
		})
	}
	if err := l.repo.IncrementStock(ctx, productID, quantity); err != nil {
		return err
	}
	l.logger.Info("stock replenished", zap.Int("productId", productID), zap.Int("quantity", quantity))
	return nil
}

func checkLines(lines []Line) error {
	var details []apperrors.ValidationDetail
	for _, line := range lines {
		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("product %d", line.ProductID),
				Message: "quantity must be greater than 0",
			})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid reservation", details...)
	}
	return nil
}

func sortedLines(lines []Line) []Line {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	return sorted
}
