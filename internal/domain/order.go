package domain

import (
	"errors"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodBoleto PaymentMethod = "boleto"
	PaymentMethodCard   PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPix, PaymentMethodBoleto, PaymentMethodCard:
		return true
	}
	return false
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodPix:
		return "Pix"
	case PaymentMethodBoleto:
		return "Boleto bancário"
	case PaymentMethodCard:
		return "Cartão de crédito"
	}
	return string(m)
}

// Address is the snapshot of the delivery (or billing) destination captured
// at purchase time. It is never updated after the order references it.
type Address struct {
	ID            uint
	UserID        string
	RecipientName string
	Street        string
	Number        string
	Complement    *string
	Neighborhood  string
	City          string
	State         string
	PostalCode    string
	CreatedAt     time.Time
}

type Order struct {
	ID              uint
	UserID          string
	CustomerName    string
	CustomerEmail   string
	AddressID       *uint
	Address         *Address
	Items           []OrderItem
	SubtotalCents   int64
	ShippingCents   int64
	DiscountCents   int64
	TotalCents      int64
	PaymentMethod   PaymentMethod
	ShippingService *string
	ShippingCarrier *string
	Status          OrderStatus
	AdminNotes      *string
	CustomerNotes   *string
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID             uint
	OrderID        uint
	ProductID      int
	ProductName    string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

// NewOrderItem captures the product price at purchase time.
func NewOrderItem(p Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Quantity:       quantity,
		UnitPriceCents: p.PriceCents,
		TotalCents:     p.PriceCents * int64(quantity),
	}
}

var ErrNegativeTotal = errors.New("discount exceeds order value")

type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	DiscountCents int64
	TotalCents    int64
}

// ComputeTotals returns subtotal = sum(unit price * quantity) and
// total = subtotal + shipping - discount.
func ComputeTotals(items []OrderItem, shippingCents, discountCents int64) (Totals, error) {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}

	total := subtotal + shippingCents - discountCents
	if discountCents < 0 || total < 0 {
		return Totals{}, ErrNegativeTotal
	}

	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shippingCents,
		DiscountCents: discountCents,
		TotalCents:    total,
	}, nil
}

// ApplyStatus sets the status and stamps the timestamp tied to it. Callers
// check CanTransitionOrder first.
func (o *Order) ApplyStatus(status OrderStatus, now time.Time) {
	o.Status = status
	o.UpdatedAt = now

	switch status {
	case OrderStatusPaid:
		o.PaidAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}
}

// RequiresShipping reports whether any line refers to a physical product.
func RequiresShipping(products []Product) bool {
	for _, p := range products {
		if p.IsPhysical() {
			return true
		}
	}
	return false
}

type Carrier string

const (
	CarrierCorreios Carrier = "correios"
	CarrierJadlog   Carrier = "jadlog"
	CarrierUnknown  Carrier = "unknown"
)

// Shipment is created on the first tracking code assignment and follows its
// own status line.
type Shipment struct {
	ID           uint
	OrderID      uint
	Carrier      Carrier
	TrackingCode string
	TrackingURL  string
	Status       ShipmentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusRefused PaymentStatus = "refused"
)

type PaymentAttempt struct {
	ID        uint
	OrderID   uint
	Provider  string
	Reference string
	Method    PaymentMethod
	Status    PaymentStatus
	Message   string
	CreatedAt time.Time
}
