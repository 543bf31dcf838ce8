package dto

type ProductResponse struct {
	ID                  int    `json:"id"`
	CreatorID           int    `json:"creatorId"`
	Slug                string `json:"slug"`
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	PriceCents          int64  `json:"priceCents"`
	CompareAtPriceCents *int64 `json:"compareAtPriceCents,omitempty"`
	Active              bool   `json:"active"`
	InStock             bool   `json:"inStock"`
	StockQuantity       *int   `json:"stockQuantity,omitempty"`
}

type SearchProductsRequest struct {
	ProductIDs []int `json:"productIds" validate:"required,min=1,max=100,dive,gt=0"`
}

type SearchProductsResponse struct {
	Products    []ProductResponse `json:"products"`
	NotFoundIDs []int             `json:"notFoundIds"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=100000"`
}

type RestockResponse struct {
	ProductID int `json:"productId"`
	Added     int `json:"added"`
}
