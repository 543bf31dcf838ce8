package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"awaiting to paid", OrderStatusAwaitingPayment, OrderStatusPaid, true},
		{"paid to picking", OrderStatusPaid, OrderStatusPicking, true},
		{"skip forward to shipped", OrderStatusAwaitingPayment, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"same status", OrderStatusPicking, OrderStatusPicking, true},
		{"cancel from awaiting", OrderStatusAwaitingPayment, OrderStatusCancelled, true},
		{"refund from in transit", OrderStatusInTransit, OrderStatusRefunded, true},
		{"backwards", OrderStatusShipped, OrderStatusPaid, false},
		{"delivered back to awaiting", OrderStatusDelivered, OrderStatusAwaitingPayment, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPaid, false},
		{"refunded is terminal", OrderStatusRefunded, OrderStatusCancelled, false},
		{"unknown target", OrderStatusPaid, OrderStatus("PERDIDO"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionOrder(tt.from, tt.to))
		})
	}
}

func TestCanTransitionShipment(t *testing.T) {
	tests := []struct {
		name string
		from ShipmentStatus
		to   ShipmentStatus
		want bool
	}{
		{"label to posted", ShipmentStatusLabelCreated, ShipmentStatusPosted, true},
		{"out for delivery to delivered", ShipmentStatusOutForDelivery, ShipmentStatusDelivered, true},
		{"returned from in transit", ShipmentStatusInTransit, ShipmentStatusReturned, true},
		{"same status", ShipmentStatusInTransit, ShipmentStatusInTransit, true},
		{"backwards", ShipmentStatusInTransit, ShipmentStatusLabelCreated, false},
		{"delivered is terminal", ShipmentStatusDelivered, ShipmentStatusReturned, false},
		{"returned is terminal", ShipmentStatusReturned, ShipmentStatusInTransit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionShipment(tt.from, tt.to))
		})
	}
}

func TestOrderStatus_LabelsAndTerminal(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusAwaitingPayment, OrderStatusPaid, OrderStatusPicking, OrderStatusShipped,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
	} {
		assert.True(t, s.Valid(), s)
		assert.NotEmpty(t, s.Label(), s)
		assert.NotEmpty(t, s.Description(), s)
	}

	assert.Equal(t, "Em trânsito", OrderStatusInTransit.Label())
	assert.True(t, OrderStatusRefunded.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
	assert.False(t, OrderStatus("X").Valid())
	assert.Equal(t, "X", OrderStatus("X").Label())
}

func TestShipmentStatus_Valid(t *testing.T) {
	assert.True(t, ShipmentStatusOutForDelivery.Valid())
	assert.Equal(t, "Saiu para entrega", ShipmentStatusOutForDelivery.Label())
	assert.True(t, ShipmentStatusReturned.Terminal())
	assert.False(t, ShipmentStatus("PERDIDO").Valid())
}
