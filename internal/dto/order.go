package dto

import "time"

type AddressDTO struct {
	RecipientName string  `json:"recipientName"`
	Street        string  `json:"street"`
	Number        string  `json:"number"`
	Complement    *string `json:"complement,omitempty"`
	Neighborhood  string  `json:"neighborhood"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postalCode"`
}

type OrderItemDTO struct {
	ProductID      int    `json:"productId"`
	ProductName    string `json:"productName"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

type ShipmentDTO struct {
	Carrier      string    `json:"carrier"`
	TrackingCode string    `json:"trackingCode"`
	TrackingURL  string    `json:"trackingUrl"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"statusLabel"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type OrderResponse struct {
	ID              uint           `json:"id"`
	Status          string         `json:"status"`
	StatusLabel     string         `json:"statusLabel"`
	PaymentMethod   string         `json:"paymentMethod"`
	SubtotalCents   int64          `json:"subtotalCents"`
	ShippingCents   int64          `json:"shippingCents"`
	DiscountCents   int64          `json:"discountCents"`
	TotalCents      int64          `json:"totalCents"`
	ShippingService *string        `json:"shippingService,omitempty"`
	ShippingCarrier *string        `json:"shippingCarrier,omitempty"`
	CustomerNotes   *string        `json:"customerNotes,omitempty"`
	AdminNotes      *string        `json:"adminNotes,omitempty"`
	Items           []OrderItemDTO `json:"items"`
	Address         *AddressDTO    `json:"address,omitempty"`
	Shipment        *ShipmentDTO   `json:"shipment,omitempty"`
	PaidAt          *time.Time     `json:"paidAt,omitempty"`
	ShippedAt       *time.Time     `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type UpdateOrderStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=AGUARDANDO_PAGAMENTO PAGO EM_SEPARACAO POSTADO EM_TRANSITO ENTREGUE CANCELADO REEMBOLSADO"`
	AdminNotes *string `json:"adminNotes,omitempty" validate:"omitempty,max=1000"`
}

type AssignTrackingRequest struct {
	TrackingCode string `json:"trackingCode" validate:"required,min=8,max=40"`
	Carrier      string `json:"carrier,omitempty" validate:"omitempty,oneof=correios jadlog unknown"`
}

type UpdateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDENTE ETIQUETA_GERADA POSTADO EM_TRANSITO SAIU_PARA_ENTREGA ENTREGUE DEVOLVIDO"`
}
