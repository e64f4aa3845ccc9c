package repository

import "github.com/tu-usuario/chatcommerce-api/internal/domain/entity"

// ProductRepository puerto de solo lectura sobre el catálogo (lo administra
// otro subsistema).
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
}
