package dto

import "time"

type QuoteItemRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,min=1,max=100"`
}

type QuoteRequest struct {
	Items                 []QuoteItemRequest `json:"items" validate:"required,min=1,max=20,unique=ProductID,dive"`
	DestinationPostalCode string             `json:"destinationPostalCode" validate:"required,postalcode"`
}

type ShippingOptionDTO struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	PriceCents   int64  `json:"priceCents"`
	DeliveryDays int    `json:"deliveryDays"`
}

type QuoteResponse struct {
	Options  []ShippingOptionDTO `json:"options"`
	Fallback bool                `json:"fallback"`
}

type TrackingEventDTO struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type TrackingResponse struct {
	Success     bool               `json:"success"`
	Code        string             `json:"code"`
	Carrier     string             `json:"carrier"`
	TrackingURL string             `json:"trackingUrl"`
	Status      string             `json:"status"`
	Message     string             `json:"message,omitempty"`
	Events      []TrackingEventDTO `json:"events"`
}
