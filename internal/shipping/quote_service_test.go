package shipping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
)

type mockProductFinder struct {
	GetProductFunc func(ctx context.Context, id int) (*domain.Product, error)
}

func (m *mockProductFinder) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

type mockCreatorConfigRepository struct {
	FindByCreatorIDFunc func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error)
}

func (m *mockCreatorConfigRepository) FindByCreatorID(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
	return m.FindByCreatorIDFunc(ctx, creatorID)
}

type recordingResolver struct {
	origin      string
	destination string
	parcels     []Parcel
	inner       *Resolver
}

func (r *recordingResolver) Quote(ctx context.Context, origin, destination string, parcels []Parcel) Quote {
	r.origin, r.destination, r.parcels = origin, destination, parcels
	return r.inner.Quote(ctx, origin, destination, parcels)
}

func physicalProduct(active bool) *domain.Product {
	return &domain.Product{ID: 3, CreatorID: 8, Kind: domain.ProductKindPhysical, PriceCents: 5000, Active: active}
}

func cartProducts(ctx context.Context, id int) (*domain.Product, error) {
	switch id {
	case 3:
		return physicalProduct(true), nil
	case 4:
		return &domain.Product{ID: 4, CreatorID: 8, Kind: domain.ProductKindPhysical, PriceCents: 7000, Active: true}, nil
	case 5:
		return &domain.Product{ID: 5, CreatorID: 8, Kind: domain.ProductKindDigital, PriceCents: 2000, Active: true}, nil
	case 6:
		return &domain.Product{ID: 6, CreatorID: 9, Kind: domain.ProductKindPhysical, PriceCents: 3000, Active: true}, nil
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func TestQuoteItems_UsesCreatorOrigin(t *testing.T) {
	resolver := &recordingResolver{inner: NewResolver(nil, time.Second, zap.NewNop())}
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: func(ctx context.Context, id int) (*domain.Product, error) { return physicalProduct(true), nil }},
		&mockCreatorConfigRepository{FindByCreatorIDFunc: func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
			assert.Equal(t, 8, creatorID)
			return &domain.CreatorShippingConfig{CreatorID: 8, OriginPostalCode: "30130-010", HandlingDays: 2}, nil
		}},
		resolver, "01310-100", zap.NewNop(),
	)

	q, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 3, Quantity: 2}}, "20040-020")
	require.NoError(t, err)

	assert.Equal(t, "30130010", resolver.origin)
	assert.Equal(t, "20040020", resolver.destination)
	require.Len(t, resolver.parcels, 1)
	assert.Equal(t, 2, resolver.parcels[0].Quantity)
	assert.Equal(t, 12+2, q.Options[0].DeliveryDays)
}

func TestQuoteItems_OneParcelPerPhysicalLine(t *testing.T) {
	lookups := 0
	resolver := &recordingResolver{inner: NewResolver(nil, time.Second, zap.NewNop())}
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: cartProducts},
		&mockCreatorConfigRepository{FindByCreatorIDFunc: func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
			lookups++
			return &domain.CreatorShippingConfig{CreatorID: creatorID, OriginPostalCode: "30130010", HandlingDays: 1}, nil
		}},
		resolver, "01310100", zap.NewNop(),
	)

	q, err := svc.QuoteItems(context.Background(), []QuoteLine{
		{ProductID: 3, Quantity: 1},
		{ProductID: 5, Quantity: 1},
		{ProductID: 4, Quantity: 2},
	}, "20040020")
	require.NoError(t, err)

	assert.Equal(t, 1, lookups)
	require.Len(t, resolver.parcels, 2)
	assert.Equal(t, "3", resolver.parcels[0].ID)
	assert.Equal(t, "4", resolver.parcels[1].ID)
	assert.Equal(t, int64(7000), resolver.parcels[1].InsuranceValueCents)

	require.Len(t, q.Options, 2)
	assert.True(t, q.Fallback)
	assert.Equal(t, int64(1590+450*2), q.Options[0].PriceCents)
	assert.Equal(t, 12+1, q.Options[0].DeliveryDays)
}

func TestQuoteItems_CreatorsSharingOrigin(t *testing.T) {
	resolver := &recordingResolver{inner: NewResolver(nil, time.Second, zap.NewNop())}
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: cartProducts},
		&mockCreatorConfigRepository{FindByCreatorIDFunc: func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
			return &domain.CreatorShippingConfig{CreatorID: creatorID, OriginPostalCode: "30130-010", HandlingDays: creatorID - 6}, nil
		}},
		resolver, "01310100", zap.NewNop(),
	)

	q, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 3, Quantity: 1}, {ProductID: 6, Quantity: 1}}, "20040020")
	require.NoError(t, err)

	assert.Equal(t, "30130010", resolver.origin)
	require.Len(t, resolver.parcels, 2)
	assert.Equal(t, 12+3, q.Options[0].DeliveryDays, "slowest creator handling wins")
}

func TestQuoteItems_RejectsMixedOrigins(t *testing.T) {
	resolver := &recordingResolver{inner: NewResolver(nil, time.Second, zap.NewNop())}
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: cartProducts},
		&mockCreatorConfigRepository{FindByCreatorIDFunc: func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
			if creatorID == 8 {
				return &domain.CreatorShippingConfig{CreatorID: 8, OriginPostalCode: "30130010"}, nil
			}
			return nil, apperrors.NewNotFoundError("not found")
		}},
		resolver, "01310100", zap.NewNop(),
	)

	_, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 3, Quantity: 1}, {ProductID: 6, Quantity: 1}}, "20040020")

	appErr, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Error(), "different origins")
	assert.Nil(t, resolver.parcels, "carrier must not be quoted")
}

func TestQuoteItems_DefaultOriginWhenNoConfig(t *testing.T) {
	resolver := &recordingResolver{inner: NewResolver(nil, time.Second, zap.NewNop())}
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: func(ctx context.Context, id int) (*domain.Product, error) { return physicalProduct(true), nil }},
		&mockCreatorConfigRepository{FindByCreatorIDFunc: func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
			return nil, apperrors.NewNotFoundError("not found")
		}},
		resolver, "01310-100", zap.NewNop(),
	)

	q, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 3, Quantity: 1}}, "20040020")
	require.NoError(t, err)

	assert.Equal(t, "01310100", resolver.origin)
	assert.Equal(t, 12, q.Options[0].DeliveryDays)
}

func TestQuoteItems_DigitalHasNoOptions(t *testing.T) {
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			return &domain.Product{ID: 1, Kind: domain.ProductKindDigital, Active: true}, nil
		}},
		&mockCreatorConfigRepository{},
		NewResolver(nil, time.Second, zap.NewNop()), "01310100", zap.NewNop(),
	)

	q, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 1, Quantity: 1}}, "20040020")
	require.NoError(t, err)
	assert.NotNil(t, q.Options)
	assert.Empty(t, q.Options)
}

func TestQuoteItems_InactiveAndMissing(t *testing.T) {
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			if id == 1 {
				return physicalProduct(false), nil
			}
			return nil, apperrors.NewNotFoundError("product not found")
		}},
		&mockCreatorConfigRepository{},
		NewResolver(nil, time.Second, zap.NewNop()), "01310100", zap.NewNop(),
	)

	_, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 1, Quantity: 1}}, "20040020")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, err = svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 2, Quantity: 1}}, "20040020")
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestQuoteItems_ConfigErrorFallsBackToDefault(t *testing.T) {
	resolver := &recordingResolver{inner: NewResolver(nil, time.Second, zap.NewNop())}
	svc := NewQuoteService(
		&mockProductFinder{GetProductFunc: func(ctx context.Context, id int) (*domain.Product, error) { return physicalProduct(true), nil }},
		&mockCreatorConfigRepository{FindByCreatorIDFunc: func(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
			return nil, errors.New("connection reset")
		}},
		resolver, "01310100", zap.NewNop(),
	)

	_, err := svc.QuoteItems(context.Background(), []QuoteLine{{ProductID: 3, Quantity: 1}}, "20040020")
	require.NoError(t, err)
	assert.Equal(t, "01310100", resolver.origin)
}
