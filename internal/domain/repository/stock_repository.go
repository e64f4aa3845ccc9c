package repository

import "github.com/tu-usuario/chatcommerce-api/internal/domain/entity"

// StockRepository puerto de persistencia para los renglones de stock.
// Get/GetForUpdate devuelven nil (sin error) si el renglón no existe: el
// renglón se crea con la primera entrada de mercancía.
type StockRepository interface {
	Get(key entity.StockKey) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la
	// transacción en curso.
	GetForUpdate(key entity.StockKey) (*entity.StockItem, error)
	Upsert(item *entity.StockItem) error
}
