package repository

import "github.com/tu-usuario/chatcommerce-api/internal/domain/entity"

// StockMovementRepository puerto de persistencia del libro de movimientos.
// Los movimientos son inmutables: solo se insertan y se listan.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByStockItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error)
}
