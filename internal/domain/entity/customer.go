package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente del workspace. OrderCount, TotalSpent y LastOrderAt son
// agregados que Confirm aplica y Cancel revierte dentro de la transacción
// del pedido; el perfil en sí lo administra un colaborador externo.
type Customer struct {
	ID          string
	WorkspaceID string
	Name        string
	Phone       string
	Email       string
	OrderCount  int
	TotalSpent  decimal.Decimal
	LastOrderAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
