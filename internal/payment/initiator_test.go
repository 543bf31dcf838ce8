package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitrine/internal/domain"
)

type mockGateway struct {
	CreatePixFunc    func(ctx context.Context, req PixRequest) (Result, error)
	CreateBoletoFunc func(ctx context.Context, req BoletoRequest) (Result, error)
}

func (m *mockGateway) Name() string { return "mock" }

func (m *mockGateway) CreatePix(ctx context.Context, req PixRequest) (Result, error) {
	return m.CreatePixFunc(ctx, req)
}

func (m *mockGateway) CreateBoleto(ctx context.Context, req BoletoRequest) (Result, error) {
	return m.CreateBoletoFunc(ctx, req)
}

type mockAttemptRepository struct {
	attempts []domain.PaymentAttempt
	err      error
}

func (m *mockAttemptRepository) Insert(ctx context.Context, attempt *domain.PaymentAttempt) error {
	m.attempts = append(m.attempts, *attempt)
	return m.err
}

func billing() *domain.Address {
	return &domain.Address{Street: "Rua A", Number: "1", Neighborhood: "Centro", City: "Recife", State: "PE", PostalCode: "50010000"}
}

func TestInitiator_SimulationPixNeverFails(t *testing.T) {
	attempts := &mockAttemptRepository{}
	i := NewInitiator(NewSimulatedGateway(SimulatedGatewayConfig{}), attempts, time.Second, 3, zap.NewNop())

	result := i.Initiate(context.Background(), Request{Method: domain.PaymentMethodPix, AmountCents: 11590, OrderID: 7})

	assert.True(t, result.Success)
	assert.Equal(t, domain.PaymentStatusPending, result.Status)
	assert.NotEmpty(t, result.PixQRCode)
	require.Len(t, attempts.attempts, 1)
	assert.Equal(t, uint(7), attempts.attempts[0].OrderID)
	assert.Equal(t, result.Reference, attempts.attempts[0].Reference)
}

func TestInitiator_SimulationBoletoNeverFails(t *testing.T) {
	i := NewInitiator(NewSimulatedGateway(SimulatedGatewayConfig{}), nil, time.Second, 3, zap.NewNop())

	result := i.Initiate(context.Background(), Request{
		Method: domain.PaymentMethodBoleto, AmountCents: 11590, OrderID: 7, BillingAddress: billing(),
	})

	assert.True(t, result.Success)
	assert.Equal(t, domain.PaymentStatusPending, result.Status)
	assert.NotEmpty(t, result.BoletoBarcode)
	assert.NotNil(t, result.BoletoDueDate)
}

func TestInitiator_CardNeedsNoInitiation(t *testing.T) {
	gateway := &mockGateway{}
	attempts := &mockAttemptRepository{}
	i := NewInitiator(gateway, attempts, time.Second, 3, zap.NewNop())

	result := i.Initiate(context.Background(), Request{Method: domain.PaymentMethodCard, AmountCents: 100, OrderID: 1})

	assert.True(t, result.Success)
	assert.Equal(t, domain.PaymentStatusPending, result.Status)
	assert.Equal(t, "card payment is confirmed client-side", result.Message)
	assert.Empty(t, attempts.attempts)
}

func TestInitiator_ProviderErrorIsRefused(t *testing.T) {
	attempts := &mockAttemptRepository{}
	gateway := &mockGateway{
		CreatePixFunc: func(ctx context.Context, req PixRequest) (Result, error) {
			return Result{}, errors.New("stripe: 500 internal server error")
		},
	}
	i := NewInitiator(gateway, attempts, time.Second, 3, zap.NewNop())

	result := i.InitiatePix(context.Background(), 11590, 9, Customer{})

	assert.False(t, result.Success)
	assert.Equal(t, domain.PaymentStatusRefused, result.Status)
	assert.Equal(t, msgRefused, result.Message)
	assert.NotContains(t, result.Message, "stripe")
	require.Len(t, attempts.attempts, 1)
	assert.Equal(t, domain.PaymentStatusRefused, attempts.attempts[0].Status)
}

func TestInitiator_TimeoutIsRefused(t *testing.T) {
	gateway := &mockGateway{
		CreateBoletoFunc: func(ctx context.Context, req BoletoRequest) (Result, error) {
			time.Sleep(time.Second)
			return Result{Success: true}, nil
		},
	}
	i := NewInitiator(gateway, nil, 20*time.Millisecond, 3, zap.NewNop())

	start := time.Now()
	result := i.InitiateBoleto(context.Background(), 100, 1, Customer{}, *billing(), 3)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.False(t, result.Success)
	assert.Equal(t, domain.PaymentStatusRefused, result.Status)
	assert.Equal(t, msgTimeout, result.Message)
}

func TestInitiator_BoletoWithoutBillingAddress(t *testing.T) {
	i := NewInitiator(&mockGateway{}, nil, time.Second, 3, zap.NewNop())

	result := i.Initiate(context.Background(), Request{Method: domain.PaymentMethodBoleto, AmountCents: 100, OrderID: 1})

	assert.False(t, result.Success)
	assert.Equal(t, domain.PaymentStatusRefused, result.Status)
}

func TestInitiator_PassesOrderRefAndDueDays(t *testing.T) {
	var got BoletoRequest
	gateway := &mockGateway{
		CreateBoletoFunc: func(ctx context.Context, req BoletoRequest) (Result, error) {
			got = req
			return Result{Success: true, Status: domain.PaymentStatusPending}, nil
		},
	}
	i := NewInitiator(gateway, nil, 0, 5, zap.NewNop())

	i.Initiate(context.Background(), Request{Method: domain.PaymentMethodBoleto, AmountCents: 2500, OrderID: 314, BillingAddress: billing()})

	assert.Equal(t, "314", got.OrderRef)
	assert.Equal(t, 5, got.DueInDays)
	assert.Equal(t, int64(2500), got.AmountCents)
	assert.Equal(t, "Recife", got.BillingAddress.City)
}

func TestInitiator_AttemptFailureIsIgnored(t *testing.T) {
	attempts := &mockAttemptRepository{err: errors.New("connection refused")}
	i := NewInitiator(NewSimulatedGateway(SimulatedGatewayConfig{}), attempts, time.Second, 3, zap.NewNop())

	result := i.InitiatePix(context.Background(), 100, 3, Customer{})

	assert.True(t, result.Success)
	assert.Len(t, attempts.attempts, 1)
}
