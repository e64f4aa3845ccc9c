package entity

import "time"

// Estados de una reserva de stock.
const (
	ReservationStatusActive   = "active"
	ReservationStatusReleased = "released"
	ReservationStatusConsumed = "consumed"
)

// ReservationTTL vigencia de una reserva activa. El barrido de reservas
// vencidas es responsabilidad de un colaborador externo; aquí el vencimiento
// es informativo.
const ReservationTTL = 24 * time.Hour

// StockReservation apartado de cantidad contra un pedido. A lo sumo una
// reserva activa por (pedido, producto, variante); la cantidad se ajusta en
// sitio, nunca se duplica la fila.
type StockReservation struct {
	ID          string
	WorkspaceID string
	OrderID     string
	ProductID   string
	VariantID   string
	Quantity    int
	Status      string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
