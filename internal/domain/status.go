package domain

type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "AGUARDANDO_PAGAMENTO"
	OrderStatusPaid            OrderStatus = "PAGO"
	OrderStatusPicking         OrderStatus = "EM_SEPARACAO"
	OrderStatusShipped         OrderStatus = "POSTADO"
	OrderStatusInTransit       OrderStatus = "EM_TRANSITO"
	OrderStatusDelivered       OrderStatus = "ENTREGUE"
	OrderStatusCancelled       OrderStatus = "CANCELADO"
	OrderStatusRefunded        OrderStatus = "REEMBOLSADO"
)

type ShipmentStatus string

const (
	ShipmentStatusPending        ShipmentStatus = "PENDENTE"
	ShipmentStatusLabelCreated   ShipmentStatus = "ETIQUETA_GERADA"
	ShipmentStatusPosted         ShipmentStatus = "POSTADO"
	ShipmentStatusInTransit      ShipmentStatus = "EM_TRANSITO"
	ShipmentStatusOutForDelivery ShipmentStatus = "SAIU_PARA_ENTREGA"
	ShipmentStatusDelivered      ShipmentStatus = "ENTREGUE"
	ShipmentStatusReturned       ShipmentStatus = "DEVOLVIDO"
)

type statusText struct {
	label       string
	description string
}

var orderStatusTexts = map[OrderStatus]statusText{
	OrderStatusAwaitingPayment: {"Aguardando pagamento", "Recebemos seu pedido e estamos aguardando a confirmação do pagamento."},
	OrderStatusPaid:            {"Pago", "Pagamento confirmado. Seu pedido já está na fila de separação."},
	OrderStatusPicking:         {"Em separação", "Estamos separando e embalando os itens do seu pedido."},
	OrderStatusShipped:         {"Postado", "Seu pedido foi postado e logo estará a caminho."},
	OrderStatusInTransit:       {"Em trânsito", "Seu pedido está em trânsito para o endereço de entrega."},
	OrderStatusDelivered:       {"Entregue", "Seu pedido foi entregue. Aproveite!"},
	OrderStatusCancelled:       {"Cancelado", "Seu pedido foi cancelado."},
	OrderStatusRefunded:        {"Reembolsado", "O valor do seu pedido foi reembolsado."},
}

var shipmentStatusTexts = map[ShipmentStatus]statusText{
	ShipmentStatusPending:        {"Pendente", "O envio ainda não foi preparado."},
	ShipmentStatusLabelCreated:   {"Etiqueta gerada", "A etiqueta de envio foi gerada."},
	ShipmentStatusPosted:         {"Postado", "O pacote foi entregue à transportadora."},
	ShipmentStatusInTransit:      {"Em trânsito", "O pacote está em trânsito."},
	ShipmentStatusOutForDelivery: {"Saiu para entrega", "O pacote saiu para entrega."},
	ShipmentStatusDelivered:      {"Entregue", "O pacote foi entregue."},
	ShipmentStatusReturned:       {"Devolvido", "O pacote foi devolvido ao remetente."},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusTexts[s]
	return ok
}

func (s OrderStatus) Label() string {
	if t, ok := orderStatusTexts[s]; ok {
		return t.label
	}
	return string(s)
}

func (s OrderStatus) Description() string {
	return orderStatusTexts[s].description
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

func (s ShipmentStatus) Valid() bool {
	_, ok := shipmentStatusTexts[s]
	return ok
}

func (s ShipmentStatus) Label() string {
	if t, ok := shipmentStatusTexts[s]; ok {
		return t.label
	}
	return string(s)
}

func (s ShipmentStatus) Description() string {
	return shipmentStatusTexts[s].description
}

func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusReturned
}

// Main lines are ordered; a status may move to any later status on its line.
var orderLine = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusPaid,
	OrderStatusPicking,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
}

var shipmentLine = []ShipmentStatus{
	ShipmentStatusPending,
	ShipmentStatusLabelCreated,
	ShipmentStatusPosted,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
}

var (
	orderTransitions    = forwardTransitions(orderLine, OrderStatusCancelled, OrderStatusRefunded)
	shipmentTransitions = forwardTransitions(shipmentLine, ShipmentStatusReturned)
)

// forwardTransitions builds an allowed-transitions table from an ordered main
// line. The last status of the line and every alternate are terminal;
// alternates are reachable from any non-terminal status.
func forwardTransitions[S comparable](line []S, alternates ...S) map[S]map[S]bool {
	table := make(map[S]map[S]bool, len(line))
	for i := 0; i < len(line)-1; i++ {
		next := make(map[S]bool, len(line)-i+len(alternates))
		for _, s := range line[i+1:] {
			next[s] = true
		}
		for _, s := range alternates {
			next[s] = true
		}
		table[line[i]] = next
	}
	return table
}

// CanTransitionOrder reports whether an order may move from one status to
// another. Staying in the same status is always allowed.
func CanTransitionOrder(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	return orderTransitions[from][to]
}

func CanTransitionShipment(from, to ShipmentStatus) bool {
	if from == to {
		return true
	}
	return shipmentTransitions[from][to]
}
