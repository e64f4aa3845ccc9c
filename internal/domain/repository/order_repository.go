package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para pedidos, líneas e historial.
type OrderRepository interface {
	// Create inserta la cabecera; si (workspace_id, number) viola la
	// restricción única devuelve domain.ErrOrderNumberConflict para que el
	// caller regenere el consecutivo y reintente.
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// LastNumber devuelve el último consecutivo conocido del workspace
	// (0 si aún no hay pedidos).
	LastNumber(workspaceID string) (int64, error)
	// CountCreatedSince cuenta pedidos del workspace creados desde el
	// instante dado (cuota mensual).
	CountCreatedSince(workspaceID string, since time.Time) (int, error)
	UpdateStatus(id, status string) error
	UpdateTotals(id string, subtotal, total decimal.Decimal) error

	CreateItem(item *entity.OrderItem) error
	ListItems(orderID string) ([]*entity.OrderItem, error)
	UpdateItemQuantity(itemID string, quantity int, total decimal.Decimal) error
	DeleteItem(itemID string) error

	CreateStatusHistory(h *entity.OrderStatusHistory) error
	ListStatusHistory(orderID string) ([]*entity.OrderStatusHistory, error)
}
