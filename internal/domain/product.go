package domain

import "time"

type ProductKind string

const (
	ProductKindPhysical ProductKind = "physical"
	ProductKindDigital  ProductKind = "digital"
)

type Product struct {
	ID                  int
	CreatorID           int
	Slug                string
	Name                string
	Kind                ProductKind
	PriceCents          int64
	CompareAtPriceCents *int64
	Active              bool
	StockQuantity       *int
	WeightGrams         *int
	HeightCm            *int
	WidthCm             *int
	LengthCm            *int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p Product) IsPhysical() bool {
	return p.Kind == ProductKindPhysical
}

// AvailableStock returns the stock count for physical products. Digital
// products are never stock-limited and report -1.
func (p Product) AvailableStock() int {
	if !p.IsPhysical() {
		return -1
	}
	if p.StockQuantity == nil || *p.StockQuantity < 0 {
		return 0
	}
	return *p.StockQuantity
}

// CreatorShippingConfig holds the per-creator dispatch settings used when
// quoting shipping for a creator's physical products.
type CreatorShippingConfig struct {
	ID               int
	CreatorID        int
	OriginPostalCode string
	HandlingDays     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
