package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes. El perfil lo
// administra un colaborador externo; aquí solo se leen datos y se mutan los
// agregados de pedidos dentro de la transacción de Confirm/Cancel.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
	// ApplyOrderStats suma orders a order_count y amount a total_spent
	// (ambos pueden ser negativos para reversar); lastOrderAt actualiza
	// last_order_at solo si no es nil.
	ApplyOrderStats(id string, orders int, amount decimal.Decimal, lastOrderAt *time.Time) error
}
