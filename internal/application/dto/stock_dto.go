package dto

import "time"

// AdjustStockRequest entrada de POST /api/stock/adjust (entrada de mercancía
// o ajuste manual; delta negativo = merma).
type AdjustStockRequest struct {
	ProductID  string `json:"product_id"`
	VariantID  string `json:"variant_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	Delta      int    `json:"delta"`
	Reason     string `json:"reason,omitempty"`
}

// StockItemDTO renglón de stock en respuestas de lectura.
type StockItemDTO struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id,omitempty"`
	LocationID string    `json:"location_id,omitempty"`
	Quantity   int       `json:"quantity"`
	Reserved   int       `json:"reserved"`
	Available  int       `json:"available"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockMovementDTO movimiento del libro en respuestas de lectura.
type StockMovementDTO struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Delta         int       `json:"delta"`
	PreviousQty   int       `json:"previous_qty"`
	NewQty        int       `json:"new_qty"`
	Reason        string    `json:"reason,omitempty"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockResponse renglón + movimientos recientes para GET /api/stock/:productID.
type StockResponse struct {
	Item      StockItemDTO       `json:"item"`
	Movements []StockMovementDTO `json:"movements"`
}
