package orders

// Estados del ciclo de vida de un pedido. Confirm crea directamente en
// awaiting_acceptance; todo avance posterior distinto de cancelled lo
// conducen flujos externos (operador, pagos). Este motor solo lee el estado
// para decidir si sus propias operaciones proceden.
const (
	StatusDraft              = "draft"
	StatusAwaitingAcceptance = "awaiting_acceptance"
	StatusPendingPayment     = "pending_payment"
	StatusPaid               = "paid"
	StatusAccepted           = "accepted"
	StatusProcessing         = "processing"
	StatusShipped            = "shipped"
	StatusDelivered          = "delivered"
	StatusInvoiced           = "invoiced"
	StatusCancelled          = "cancelled"
)

// validNext transiciones permitidas. cancelled es alcanzable desde cualquier
// estado previo a accepted.
var validNext = map[string]map[string]bool{
	StatusDraft:              {StatusAwaitingAcceptance: true, StatusCancelled: true},
	StatusAwaitingAcceptance: {StatusPendingPayment: true, StatusCancelled: true},
	StatusPendingPayment:     {StatusPaid: true, StatusCancelled: true},
	StatusPaid:               {StatusAccepted: true, StatusCancelled: true},
	StatusAccepted:           {StatusProcessing: true},
	StatusProcessing:         {StatusShipped: true},
	StatusShipped:            {StatusDelivered: true},
	StatusDelivered:          {StatusInvoiced: true},
	StatusInvoiced:           {},
	StatusCancelled:          {},
}

// processed estados más allá de la ventana de mutación automática.
var processed = map[string]bool{
	StatusAccepted:   true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusInvoiced:   true,
}

// CanTransition indica si el paso from -> to es válido.
func CanTransition(from, to string) bool {
	return validNext[from][to]
}

// IsProcessed indica si el pedido pasó la frontera "procesado".
func IsProcessed(status string) bool { return processed[status] }

// IsValidStatus indica si el estado pertenece al ciclo de vida conocido.
func IsValidStatus(status string) bool {
	_, ok := validNext[status]
	return ok
}

// Razones de la decisión de la puerta de políticas.
const (
	ReasonAllowed          = "allowed"
	ReasonProcessed        = "order_processed_escalate_to_operator"
	ReasonAlreadyCancelled = "order_already_cancelled"
	ReasonUnknownStatus    = "unknown_status"
)

// Decision resultado de la puerta de políticas.
type Decision struct {
	Allowed bool
	Reason  string
	// Handoff instruye al caller a enrutar a un operador humano en vez de
	// reintentar automáticamente.
	Handoff bool
}

// CanMutate es la única fuente de verdad del invariante de pedido protegido:
// Modify y Cancel la consultan de forma idéntica. Función pura.
func CanMutate(status string) Decision {
	switch {
	case IsProcessed(status):
		return Decision{Allowed: false, Reason: ReasonProcessed, Handoff: true}
	case status == StatusCancelled:
		return Decision{Allowed: false, Reason: ReasonAlreadyCancelled}
	case !IsValidStatus(status):
		return Decision{Allowed: false, Reason: ReasonUnknownStatus, Handoff: true}
	default:
		return Decision{Allowed: true, Reason: ReasonAllowed}
	}
}
