package shipping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/validation"
)

type ProductFinder interface {
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}

type CreatorConfigRepository interface {
	FindByCreatorID(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error)
}

type QuoteResolver interface {
	Quote(ctx context.Context, origin, destination string, parcels []Parcel) Quote
}

// QuoteLine is one cart line to quote.
type QuoteLine struct {
	ProductID int
	Quantity  int
}

// QuoteService answers the client's quote request for a cart. Every
// physical line becomes one parcel. The origin comes from the creators'
// shipping config, or the store default, and must be shared by all lines.
type QuoteService struct {
	products      ProductFinder
	creatorConfig CreatorConfigRepository
	resolver      QuoteResolver
	defaultOrigin string
	logger        *zap.Logger
}

func NewQuoteService(products ProductFinder, creatorConfig CreatorConfigRepository, resolver QuoteResolver, defaultOrigin string, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		products:      products,
		creatorConfig: creatorConfig,
		resolver:      resolver,
		defaultOrigin: validation.NormalizePostalCode(defaultOrigin),
		logger:        logger,
	}
}

func (s *QuoteService) QuoteItems(ctx context.Context, lines []QuoteLine, destination string) (Quote, error) {
	parcels := make([]Parcel, 0, len(lines))
	origins := make(map[int]string)
	origin := ""
	handlingDays := 0

	for i, line := range lines {
		p, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return Quote{}, err
		}

		if !p.Active {
			return Quote{}, apperrors.NewValidationError("product is not available", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: fmt.Sprintf("product %d is inactive", line.ProductID),
			})
		}

		if !p.IsPhysical() {
			continue
		}

		lineOrigin, ok := origins[p.CreatorID]
		if !ok {
			var days int
			lineOrigin, days = s.origin(ctx, p.CreatorID)
			origins[p.CreatorID] = lineOrigin
			if days > handlingDays {
				handlingDays = days
			}
		}

		if origin != "" && lineOrigin != origin {
			return Quote{}, apperrors.NewValidationError("items ship from different origins", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: fmt.Sprintf("product %d ships from %s, other items ship from %s", line.ProductID, lineOrigin, origin),
			})
		}
		origin = lineOrigin

		parcels = append(parcels, ParcelFor(*p, line.Quantity))
	}

	if len(parcels) == 0 {
		return Quote{Options: []Option{}}, nil
	}

	quote := s.resolver.Quote(ctx, origin, validation.NormalizePostalCode(destination), parcels)

	if handlingDays > 0 {
		for i := range quote.Options {
			quote.Options[i].DeliveryDays += handlingDays
		}
	}

	return quote, nil
}

func (s *QuoteService) origin(ctx context.Context, creatorID int) (string, int) {
	cfg, err := s.creatorConfig.FindByCreatorID(ctx, creatorID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			s.logger.Warn("loading creator shipping config failed, using default origin", zap.Int("creatorId", creatorID), zap.Error(err))
		}
		return s.defaultOrigin, 0
	}

	origin := validation.NormalizePostalCode(cfg.OriginPostalCode)
	if len(origin) != 8 {
		return s.defaultOrigin, cfg.HandlingDays
	}
	return origin, cfg.HandlingDays
}
