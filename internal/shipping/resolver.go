package shipping

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
)

const (
	DefaultWeightGrams = 300
	DefaultHeightCm    = 4
	DefaultWidthCm     = 11
	DefaultLengthCm    = 16

	standardBaseCents     = 1590
	standardPerExtraCents = 450
	standardDeliveryDays  = 12
	expressBaseCents      = 2990
	expressPerExtraCents  = 750
	expressDeliveryDays   = 5
)

// Parcel is one synthetic package sent to the carrier API, one per distinct
// line item.
type Parcel struct {
	ID                  string
	WeightGrams         int
	HeightCm            int
	WidthCm             int
	LengthCm            int
	InsuranceValueCents int64
	Quantity            int
}

type Option struct {
	ID           string
	Carrier      string
	Service      string
	PriceCents   int64
	DeliveryDays int
}

type Quote struct {
	Options  []Option
	Fallback bool
}

// RateProvider is the external carrier-rate API.
type RateProvider interface {
	Rates(ctx context.Context, origin, destination string, parcels []Parcel) ([]Option, error)
}

// Resolver quotes shipping through the carrier API and falls back to local
// pricing when the API fails, times out or returns nothing usable. A nil
// provider means fallback pricing only.
type Resolver struct {
	provider RateProvider
	timeout  time.Duration
	logger   *zap.Logger
}

func NewResolver(provider RateProvider, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

func (r *Resolver) Quote(ctx context.Context, origin, destination string, parcels []Parcel) Quote {
	if r.provider != nil {
		options, err := r.live(ctx, origin, destination, parcels)
		if err == nil && len(options) > 0 {
			return Quote{Options: options}
		}
		if err != nil {
			r.logger.Warn("carrier rate api failed, using fallback pricing",
				zap.String("origin", origin),
				zap.String("destination", destination),
				zap.Error(err),
			)
		} else {
			r.logger.Warn("carrier rate api returned no options, using fallback pricing",
				zap.String("origin", origin),
				zap.String("destination", destination),
			)
		}
	}

	return Quote{Options: FallbackOptions(totalUnits(parcels)), Fallback: true}
}

func (r *Resolver) live(ctx context.Context, origin, destination string, parcels []Parcel) ([]Option, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.provider.Rates(callCtx, origin, destination, parcels)
	if err != nil {
		return nil, apperrors.NewProviderUnavailableError("carrier-api", err)
	}

	options := make([]Option, 0, len(raw))
	for _, o := range raw {
		if o.PriceCents <= 0 {
			continue
		}
		options = append(options, o)
	}

	sort.SliceStable(options, func(i, j int) bool { return options[i].PriceCents < options[j].PriceCents })
	return options, nil
}

// FallbackOptions prices a standard and an express tier locally. Each unit
// beyond the first adds a fixed increment.
func FallbackOptions(units int) []Option {
	extra := int64(units - 1)
	if extra < 0 {
		extra = 0
	}

	return []Option{
		{
			ID:           "fallback-pac",
			Carrier:      "Correios",
			Service:      "PAC",
			PriceCents:   standardBaseCents + standardPerExtraCents*extra,
			DeliveryDays: standardDeliveryDays,
		},
		{
			ID:           "fallback-sedex",
			Carrier:      "Correios",
			Service:      "SEDEX",
			PriceCents:   expressBaseCents + expressPerExtraCents*extra,
			DeliveryDays: expressDeliveryDays,
		},
	}
}

func totalUnits(parcels []Parcel) int {
	units := 0
	for _, p := range parcels {
		units += p.Quantity
	}
	return units
}

// ParcelFor builds the carrier parcel for a line item, defaulting missing
// weight and dimensions. Insurance is the unit price.
func ParcelFor(p domain.Product, quantity int) Parcel {
	parcel := Parcel{
		ID:                  fmt.Sprintf("%d", p.ID),
		WeightGrams:         DefaultWeightGrams,
		HeightCm:            DefaultHeightCm,
		WidthCm:             DefaultWidthCm,
		LengthCm:            DefaultLengthCm,
		InsuranceValueCents: p.PriceCents,
		Quantity:            quantity,
	}
	if p.WeightGrams != nil && *p.WeightGrams > 0 {
		parcel.WeightGrams = *p.WeightGrams
	}
	if p.HeightCm != nil && *p.HeightCm > 0 {
		parcel.HeightCm = *p.HeightCm
	}
	if p.WidthCm != nil && *p.WidthCm > 0 {
		parcel.WidthCm = *p.WidthCm
	}
	if p.LengthCm != nil && *p.LengthCm > 0 {
		parcel.LengthCm = *p.LengthCm
	}
	return parcel
}
