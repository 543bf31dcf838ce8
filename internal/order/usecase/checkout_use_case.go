package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/events"
	"vitrine/internal/inventory"
	"vitrine/internal/notification"
	"vitrine/internal/payment"
	"vitrine/internal/session"
)

type ProductService interface {
	GetProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error)
}

type StockLedger interface {
	ReserveAll(ctx context.Context, lines []inventory.Line) error
}

type OrderWriter interface {
	PersistOrder(ctx context.Context, address *domain.Address, order *domain.Order) error
}

type PaymentInitiator interface {
	Initiate(ctx context.Context, req payment.Request) payment.Result
}

type CheckoutLine struct {
	ProductID int
	Quantity  int
}

// ShippingChoice is the option the client picked from an earlier quote.
type ShippingChoice struct {
	Service    string
	Carrier    string
	PriceCents int64
}

type CheckoutCommand struct {
	Customer      session.Principal
	Lines         []CheckoutLine
	PaymentMethod domain.PaymentMethod
	Shipping      *ShippingChoice
	Address       *domain.Address
	CustomerNotes string
}

type CheckoutResult struct {
	Order   *domain.Order
	Payment payment.Result
}

type CheckoutUseCase struct {
	products ProductService
	ledger   StockLedger
	orders   OrderWriter
	payments PaymentInitiator
	notifier Notifier
	store    Store
	clock    func() time.Time
	logger   *zap.Logger
}

func NewCheckoutUseCase(
	products ProductService,
	ledger StockLedger,
	orders OrderWriter,
	payments PaymentInitiator,
	notifier Notifier,
	store Store,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		products: products,
		ledger:   ledger,
		orders:   orders,
		payments: payments,
		notifier: notifier,
		store:    store,
		clock:    time.Now,
		logger:   logger,
	}
}

// Checkout validates the cart, reserves stock for physical lines, persists
// the order and starts the payment. Errors are returned only for the steps
// before the order exists; a refused payment is part of the result.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	logger := uc.logger.With(zap.String("userId", cmd.Customer.ID))
	logger.Info("checkout started",
		zap.Int("lineCount", len(cmd.Lines)),
		zap.String("paymentMethod", string(cmd.PaymentMethod)),
	)

	// Validate
	products, err := uc.loadProducts(ctx, cmd)
	if err != nil {
		logger.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	physical := domain.RequiresShipping(products)
	if err := validateDelivery(cmd, physical); err != nil {
		logger.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	order, err := uc.buildOrder(cmd, products, physical)
	if err != nil {
		logger.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	// Reserve stock
	if lines := stockLines(cmd.Lines, products); len(lines) > 0 {
		if err := uc.ledger.ReserveAll(ctx, lines); err != nil {
			logger.Warn("stock reservation failed", zap.Error(err))
			return nil, err
		}
		logger.Debug("stock reserved", zap.Int("lineCount", len(lines)))
	}

	// Persist
	var address *domain.Address
	if cmd.Address != nil {
		snapshot := *cmd.Address
		snapshot.UserID = cmd.Customer.ID
		address = &snapshot
	}
	if err := uc.orders.PersistOrder(ctx, address, order); err != nil {
		// Reserved stock is not released here; it is restored by a manual
		// admin adjustment.
		logger.Error("order persistence failed after stock reservation", zap.Error(err))
		return nil, err
	}
	logger = logger.With(zap.Uint("orderId", order.ID))

	// Initiate payment
	result := uc.payments.Initiate(ctx, payment.Request{
		Method:      order.PaymentMethod,
		AmountCents: order.TotalCents,
		OrderID:     order.ID,
		Customer: payment.Customer{
			Name:  customerName(cmd.Customer),
			Email: cmd.Customer.Email,
			CPF:   cmd.Customer.CPF,
		},
		BillingAddress: address,
	})
	if result.Success {
		logger.Info("payment initiated", zap.String("provider", result.Provider), zap.String("reference", result.Reference))
	} else {
		logger.Warn("payment refused, order kept awaiting payment", zap.String("provider", result.Provider), zap.String("message", result.Message))
	}

	// Notify
	uc.notifier.DispatchAsync(ctx, notification.Notification{
		Recipient: recipient(order),
		Kind:      notification.KindOrderConfirmation,
		Data:      notificationData(uc.store, order, nil),
		Event: orderEvent(events.OrderCreated, order, order.CreatedAt, map[string]string{
			"paymentMethod": string(order.PaymentMethod),
			"paymentStatus": string(result.Status),
		}),
	})

	logger.Info("checkout completed",
		zap.Int64("totalCents", order.TotalCents),
		zap.Bool("paymentSuccess", result.Success),
	)
	return &CheckoutResult{Order: order, Payment: result}, nil
}

func (uc *CheckoutUseCase) loadProducts(ctx context.Context, cmd CheckoutCommand) ([]domain.Product, error) {
	var details []apperrors.ValidationDetail

	if len(cmd.Lines) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "at least one item is required",
		})
	}
	if !cmd.PaymentMethod.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: fmt.Sprintf("unsupported payment method %q", cmd.PaymentMethod),
		})
	}

	ids := make([]int, 0, len(cmd.Lines))
	seen := make(map[int]bool, len(cmd.Lines))
	for i, line := range cmd.Lines {
		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be greater than 0",
			})
		}
		if seen[line.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: "productId must not be duplicated",
			})
			continue
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid cart", details...)
	}

	products, missing, err := uc.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		details = append(details, apperrors.ValidationDetail{
			Field:   fmt.Sprintf("product %d", id),
			Message: "product not found",
		})
	}
	for _, p := range products {
		if !p.Active {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("product %d", p.ID),
				Message: "product is not available",
			})
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid cart", details...)
	}

	return products, nil
}

// validateDelivery requires a shipping choice and an address for physical
// carts, and a billing address for boleto.
func validateDelivery(cmd CheckoutCommand, physical bool) error {
	var details []apperrors.ValidationDetail
	if physical && cmd.Shipping == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "shipping",
			Message: "a shipping option is required for physical products",
		})
	}
	if physical && cmd.Address == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "address",
			Message: "a delivery address is required for physical products",
		})
	}
	if !physical && cmd.PaymentMethod == domain.PaymentMethodBoleto && cmd.Address == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "address",
			Message: "a billing address is required for boleto payments",
		})
	}
	if cmd.Shipping != nil && cmd.Shipping.PriceCents < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "shipping.priceCents",
			Message: "must not be negative",
		})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid checkout", details...)
	}
	return nil
}

func (uc *CheckoutUseCase) buildOrder(cmd CheckoutCommand, products []domain.Product, physical bool) (*domain.Order, error) {
	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(cmd.Lines))
	for _, line := range cmd.Lines {
		items = append(items, domain.NewOrderItem(byID[line.ProductID], line.Quantity))
	}

	var shippingCents int64
	var service, carrier *string
	if physical {
		shippingCents = cmd.Shipping.PriceCents
		s := strings.TrimSpace(cmd.Shipping.Service)
		service = &s
		if c := strings.TrimSpace(cmd.Shipping.Carrier); c != "" {
			carrier = &c
		}
	}

	totals, err := domain.ComputeTotals(items, shippingCents, 0)
	if errors.Is(err, domain.ErrNegativeTotal) {
		return nil, apperrors.NewValidationError("invalid totals", apperrors.ValidationDetail{
			Field:   "discount",
			Message: err.Error(),
		})
	}
	if err != nil {
		return nil, err
	}

	now := uc.clock().UTC()
	order := &domain.Order{
		UserID:          cmd.Customer.ID,
		CustomerName:    customerName(cmd.Customer),
		CustomerEmail:   cmd.Customer.Email,
		Items:           items,
		SubtotalCents:   totals.SubtotalCents,
		ShippingCents:   totals.ShippingCents,
		DiscountCents:   totals.DiscountCents,
		TotalCents:      totals.TotalCents,
		PaymentMethod:   cmd.PaymentMethod,
		ShippingService: service,
		ShippingCarrier: carrier,
		Status:          domain.OrderStatusAwaitingPayment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if notes := strings.TrimSpace(cmd.CustomerNotes); notes != "" {
		order.CustomerNotes = &notes
	}
	return order, nil
}

// stockLines keeps the physical lines only; digital products are never
// stock-limited.
func stockLines(lines []CheckoutLine, products []domain.Product) []inventory.Line {
	physical := make(map[int]bool, len(products))
	for _, p := range products {
		physical[p.ID] = p.IsPhysical()
	}

	var out []inventory.Line
	for _, line := range lines {
		if physical[line.ProductID] {
			out = append(out, inventory.Line{ProductID: line.ProductID, Quantity: line.Quantity})
		}
	}
	return out
}

func customerName(p session.Principal) string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.Email
}
