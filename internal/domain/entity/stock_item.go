package entity

import "time"

// StockKey identifica un renglón de stock por producto, variante y ubicación
// dentro de un workspace. VariantID y LocationID pueden ser vacíos.
type StockKey struct {
	WorkspaceID string
	ProductID   string
	VariantID   string
	LocationID  string
}

// StockItem contador de stock por producto/variante/ubicación.
// Invariante: 0 <= Reserved <= Quantity. Se crea con la primera entrada de
// mercancía y solo se muta, nunca se borra.
type StockItem struct {
	ID          string
	WorkspaceID string
	ProductID   string
	VariantID   string
	LocationID  string
	Quantity    int // existencia física (on hand)
	Reserved    int // apartado para pedidos
	UpdatedAt   time.Time
}

// Available devuelve las unidades disponibles para apartar.
func (s *StockItem) Available() int { return s.Quantity - s.Reserved }

// Key devuelve la clave natural del renglón.
func (s *StockItem) Key() StockKey {
	return StockKey{
		WorkspaceID: s.WorkspaceID,
		ProductID:   s.ProductID,
		VariantID:   s.VariantID,
		LocationID:  s.LocationID,
	}
}
