package entity

import "time"

// Tipos de movimiento de stock (unión cerrada).
const (
	MovementTypeReservation = "reservation" // apartado para un pedido
	MovementTypeRelease     = "release"     // liberación de un apartado
	MovementTypeSale        = "sale"        // salida por venta confirmada
	MovementTypeReversal    = "reversal"    // reverso por cancelación
	MovementTypeAdjustment  = "adjustment"  // ajuste manual / entrada de mercancía
)

// Tipos de referencia de un movimiento.
const (
	ReferenceTypeOrder      = "order"
	ReferenceTypeAdjustment = "adjustment"
)

// MovementRef par (tipo, id) que ancla el movimiento a su causa.
type MovementRef struct {
	Type string
	ID   string
}

// StockMovement registro inmutable del libro de stock. Delta es el cambio en
// el disponible (Quantity - Reserved); PreviousQty y NewQty son el disponible
// antes y después. Invariante: NewQty = PreviousQty + Delta, y la suma de los
// deltas de un renglón reconstruye su disponible actual.
type StockMovement struct {
	ID            string
	StockItemID   string
	Type          string
	Delta         int
	PreviousQty   int
	NewQty        int
	Reason        string
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
	CreatedBy     string
}
