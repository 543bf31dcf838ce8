package dto

import "time"

type CheckoutItemRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,min=1,max=100"`
}

// ShippingSelection is the option the client picked from a previous quote.
type ShippingSelection struct {
	Service      string `json:"service" validate:"required,max=60"`
	Carrier      string `json:"carrier" validate:"max=60"`
	PriceCents   int64  `json:"priceCents" validate:"gte=0"`
	DeliveryDays int    `json:"deliveryDays" validate:"gte=0"`
}

type AddressRequest struct {
	RecipientName string  `json:"recipientName" validate:"required,max=120"`
	Street        string  `json:"street" validate:"required,max=160"`
	Number        string  `json:"number" validate:"required,max=20"`
	Complement    *string `json:"complement,omitempty" validate:"omitempty,max=80"`
	Neighborhood  string  `json:"neighborhood" validate:"required,max=80"`
	City          string  `json:"city" validate:"required,max=80"`
	State         string  `json:"state" validate:"required,uf"`
	PostalCode    string  `json:"postalCode" validate:"required,postalcode"`
}

type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,max=20,unique=ProductID,dive"`
	PaymentMethod string                `json:"paymentMethod" validate:"required,oneof=pix boleto card"`
	Shipping      *ShippingSelection    `json:"shipping,omitempty" validate:"omitempty"`
	Address       *AddressRequest       `json:"address,omitempty" validate:"omitempty"`
	CustomerNotes string                `json:"customerNotes,omitempty" validate:"max=500"`
}

type PaymentResultDTO struct {
	Success             bool    `json:"success"`
	TransactionID       *string `json:"transactionId,omitempty"`
	Status              string  `json:"status"`
	Message             string  `json:"message"`
	PixQrCode           *string `json:"pixQrCode,omitempty"`
	PixQrCodeImage      *string `json:"pixQrCodeImage,omitempty"`
	BoletoBarcode       *string `json:"boletoBarcode,omitempty"`
	BoletoDigitableLine *string `json:"boletoDigitableLine,omitempty"`
	BoletoURL           *string `json:"boletoUrl,omitempty"`
	BoletoDueDate       *string `json:"boletoDueDate,omitempty"`
}

type CheckoutResponse struct {
	TraceID       string           `json:"traceId"`
	OrderID       uint             `json:"orderId"`
	Status        string           `json:"status"`
	SubtotalCents int64            `json:"subtotalCents"`
	ShippingCents int64            `json:"shippingCents"`
	DiscountCents int64            `json:"discountCents"`
	TotalCents    int64            `json:"totalCents"`
	Payment       PaymentResultDTO `json:"payment"`
	Timestamp     time.Time        `json:"timestamp"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
