package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order cabecera de un pedido confirmado por el agente conversacional.
// Number es secuencial y único por workspace. Los totales se recalculan
// siempre desde las líneas, nunca se mantienen incrementalmente.
type Order struct {
	ID              string
	WorkspaceID     string
	CustomerID      string
	Number          int64
	Status          string
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem línea de pedido. Total = Quantity x UnitPrice.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	VariantID string
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderStatusHistory transición registrada del estado de un pedido.
type OrderStatusHistory struct {
	ID         string
	OrderID    string
	FromStatus string
	ToStatus   string
	Note       string
	CreatedAt  time.Time
}
