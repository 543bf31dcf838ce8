package inventory

import (
	"context"
	"fmt"
	"sync"

	apperrors "vitrine/internal/errors"
)

// MemoryLedger keeps stock in a mutex-guarded map. Used by tests and by local
// runs without a database.
type MemoryLedger struct {
	mu    sync.Mutex
	stock map[int]int
}

func NewMemoryLedger(stock map[int]int) *MemoryLedger {
	m := make(map[int]int, len(stock))
	for id, qty := range stock {
		m[id] = qty
	}
	return &MemoryLedger{stock: m}
}

func (l *MemoryLedger) Reserve(ctx context.Context, productID, quantity int) error {
	return l.ReserveAll(ctx, []Line{{ProductID: productID, Quantity: quantity}})
}

func (l *MemoryLedger) ReserveAll(ctx context.Context, lines []Line) error {
	if err := checkLines(lines); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range lines {
		current, ok := l.stock[line.ProductID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", line.ProductID))
		}
		if current < line.Quantity {
			return apperrors.NewInsufficientStockError(line.ProductID, line.Quantity, current)
		}
	}

	for _, line := range lines {
		l.stock[line.ProductID] -= line.Quantity
	}
	return nil
}

func (l *MemoryLedger) Restock(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		return apperrors.NewValidationError("quantity must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.stock[productID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	l.stock[productID] += quantity
	return nil
}

func (l *MemoryLedger) Stock(productID int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]
}
