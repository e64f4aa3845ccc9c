package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del snapshot de carrito que entrega el almacén de sesión.
type CartItem struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// CartSnapshot carrito leído una sola vez al confirmar; el almacén externo
// lo limpia solo después del commit.
type CartSnapshot struct {
	Items           []CartItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
}

// ConfirmOrderRequest entrada de POST /api/orders/confirm.
type ConfirmOrderRequest struct {
	CustomerID string       `json:"customer_id"`
	SessionID  string       `json:"session_id"`
	Cart       CartSnapshot `json:"cart"`
}

// ConfirmOrderResponse respuesta de Confirm. Duplicate=true señala un replay
// idempotente: mismo pedido, cero escrituras adicionales.
type ConfirmOrderResponse struct {
	OrderID     string          `json:"order_id"`
	OrderNumber int64           `json:"order_number"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Duplicate   bool            `json:"duplicate"`
	Message     string          `json:"message"`
}

// Acciones de Modify sobre una línea.
const (
	ModifyActionAdd            = "add"
	ModifyActionRemove         = "remove"
	ModifyActionUpdateQuantity = "update_quantity"
)

// ModifyOrderRequest entrada de POST /api/orders/:id/modify.
type ModifyOrderRequest struct {
	Action    string `json:"action"` // add | remove | update_quantity
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// ModifyOrderResponse respuesta de Modify con los totales recalculados.
type ModifyOrderResponse struct {
	OrderID     string          `json:"order_id"`
	OrderNumber int64           `json:"order_number"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	Message     string          `json:"message"`
}

// CancelOrderResponse respuesta de Cancel. AlreadyCancelled=true señala el
// no-op idempotente.
type CancelOrderResponse struct {
	OrderID          string `json:"order_id"`
	OrderNumber      int64  `json:"order_number"`
	Status           string `json:"status"`
	AlreadyCancelled bool   `json:"already_cancelled"`
	Message          string `json:"message"`
}

// OrderItemDTO línea de pedido en respuestas de lectura.
type OrderItemDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// StatusHistoryDTO transición registrada en el historial.
type StatusHistoryDTO struct {
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderResponse cabecera + líneas + historial para GET /api/orders/:id.
type OrderResponse struct {
	ID              string             `json:"id"`
	Number          int64              `json:"number"`
	CustomerID      string             `json:"customer_id"`
	Status          string             `json:"status"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Shipping        decimal.Decimal    `json:"shipping"`
	Discount        decimal.Decimal    `json:"discount"`
	Total           decimal.Decimal    `json:"total"`
	Notes           string             `json:"notes,omitempty"`
	ShippingAddress string             `json:"shipping_address,omitempty"`
	Items           []OrderItemDTO     `json:"items"`
	StatusHistory   []StatusHistoryDTO `json:"status_history"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
