package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo referenciado por pedidos y stock.
// El catálogo lo administra otro subsistema; aquí solo se consulta.
type Product struct {
	ID          string
	WorkspaceID string
	SKU         string
	Name        string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
