package payment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
)

const (
	msgCardClientSide = "card payment is confirmed client-side"
	msgTimeout        = "the payment provider did not answer in time, try again in a few minutes"
	msgRefused        = "the payment could not be created, try again or choose another payment method"
	msgBillingMissing = "a billing address is required for boleto payments"
)

type Customer struct {
	Name  string
	Email string
	CPF   string
}

type PixRequest struct {
	AmountCents int64
	OrderRef    string
	Customer    Customer
}

type BoletoRequest struct {
	AmountCents    int64
	OrderRef       string
	Customer       Customer
	BillingAddress domain.Address
	DueInDays      int
}

// Result is what the checkout returns to the client. Optional display
// fields are empty when the method does not produce them.
type Result struct {
	Success             bool
	Provider            string
	Reference           string
	Method              domain.PaymentMethod
	Status              domain.PaymentStatus
	Message             string
	PixQRCode           string
	PixQRCodeImage      string
	BoletoBarcode       string
	BoletoDigitableLine string
	BoletoURL           string
	BoletoDueDate       *time.Time
}

// Gateway talks to one payment provider. Errors returned here never reach
// the caller of the Initiator.
type Gateway interface {
	Name() string
	CreatePix(ctx context.Context, req PixRequest) (Result, error)
	CreateBoleto(ctx context.Context, req BoletoRequest) (Result, error)
}

type AttemptRepository interface {
	Insert(ctx context.Context, attempt *domain.PaymentAttempt) error
}

// Request is the dispatcher input used by the checkout.
type Request struct {
	Method         domain.PaymentMethod
	AmountCents    int64
	OrderID        uint
	Customer       Customer
	BillingAddress *domain.Address
}

type Initiator struct {
	gateway       Gateway
	attempts      AttemptRepository
	timeout       time.Duration
	boletoDueDays int
	logger        *zap.Logger
}

// NewInitiator binds the gateway once; the mode never changes per call.
// attempts may be nil when attempts are not persisted.
func NewInitiator(gateway Gateway, attempts AttemptRepository, timeout time.Duration, boletoDueDays int, logger *zap.Logger) *Initiator {
	if boletoDueDays <= 0 {
		boletoDueDays = 3
	}
	return &Initiator{
		gateway:       gateway,
		attempts:      attempts,
		timeout:       timeout,
		boletoDueDays: boletoDueDays,
		logger:        logger,
	}
}

func (i *Initiator) Initiate(ctx context.Context, req Request) Result {
	var result Result
	switch req.Method {
	case domain.PaymentMethodPix:
		result = i.InitiatePix(ctx, req.AmountCents, req.OrderID, req.Customer)
	case domain.PaymentMethodBoleto:
		if req.BillingAddress == nil {
			result = Result{
				Provider: i.gateway.Name(),
				Method:   domain.PaymentMethodBoleto,
				Status:   domain.PaymentStatusRefused,
				Message:  msgBillingMissing,
			}
			i.record(ctx, req.OrderID, result)
			return result
		}
		result = i.InitiateBoleto(ctx, req.AmountCents, req.OrderID, req.Customer, *req.BillingAddress, i.boletoDueDays)
	default:
		result = Result{
			Success: true,
			Method:  domain.PaymentMethodCard,
			Status:  domain.PaymentStatusPending,
			Message: msgCardClientSide,
		}
	}
	return result
}

func (i *Initiator) InitiatePix(ctx context.Context, amountCents int64, orderID uint, customer Customer) Result {
	req := PixRequest{AmountCents: amountCents, OrderRef: orderRef(orderID), Customer: customer}

	result, err := i.call(ctx, func(ctx context.Context) (Result, error) {
		return i.gateway.CreatePix(ctx, req)
	})
	if err != nil {
		result = i.refused(domain.PaymentMethodPix, orderID, err)
	}
	i.record(ctx, orderID, result)
	return result
}

func (i *Initiator) InitiateBoleto(ctx context.Context, amountCents int64, orderID uint, customer Customer, billing domain.Address, dueInDays int) Result {
	req := BoletoRequest{
		AmountCents:    amountCents,
		OrderRef:       orderRef(orderID),
		Customer:       customer,
		BillingAddress: billing,
		DueInDays:      dueInDays,
	}

	result, err := i.call(ctx, func(ctx context.Context) (Result, error) {
		return i.gateway.CreateBoleto(ctx, req)
	})
	if err != nil {
		result = i.refused(domain.PaymentMethodBoleto, orderID, err)
	}
	i.record(ctx, orderID, result)
	return result
}

// call bounds the gateway with the configured timeout. A gateway that
// ignores its context still cannot hold the caller past the deadline.
func (i *Initiator) call(ctx context.Context, fn func(ctx context.Context) (Result, error)) (Result, error) {
	if i.timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := fn(ctx)
		done <- outcome{result: r, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (i *Initiator) refused(method domain.PaymentMethod, orderID uint, err error) Result {
	message := msgRefused
	if errors.Is(err, context.DeadlineExceeded) {
		message = msgTimeout
	}

	i.logger.Warn("payment initiation refused",
		zap.String("provider", i.gateway.Name()),
		zap.String("method", string(method)),
		zap.Uint("orderId", orderID),
		zap.Error(err),
	)

	return Result{
		Success:  false,
		Provider: i.gateway.Name(),
		Method:   method,
		Status:   domain.PaymentStatusRefused,
		Message:  message,
	}
}

func (i *Initiator) record(ctx context.Context, orderID uint, result Result) {
	if i.attempts == nil || orderID == 0 {
		return
	}

	attempt := &domain.PaymentAttempt{
		OrderID:   orderID,
		Provider:  result.Provider,
		Reference: result.Reference,
		Method:    result.Method,
		Status:    result.Status,
		Message:   result.Message,
	}
	if err := i.attempts.Insert(context.WithoutCancel(ctx), attempt); err != nil {
		i.logger.Warn("failed to record payment attempt",
			zap.Uint("orderId", orderID),
			zap.String("reference", result.Reference),
			zap.Error(err),
		)
	}
}

func orderRef(orderID uint) string {
	return strconv.FormatUint(uint64(orderID), 10)
}
