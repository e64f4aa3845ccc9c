package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera. La restricción única (workspace_id, number)
// convierte la carrera del consecutivo en ErrOrderNumberConflict para que el
// caller reintente con otro número.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders
			(id, workspace_id, customer_id, number, status, subtotal, shipping, discount, total, notes, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.WorkspaceID, order.CustomerID, order.Number, order.Status,
		order.Subtotal, order.Shipping, order.Discount, order.Total,
		order.Notes, order.ShippingAddress, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderNumberConflict
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetByID devuelve el pedido; nil sin error si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT id, workspace_id, customer_id, number, status, subtotal, shipping, discount, total, notes, shipping_address, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.WorkspaceID, &o.CustomerID, &o.Number, &o.Status,
		&o.Subtotal, &o.Shipping, &o.Discount, &o.Total,
		&o.Notes, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// LastNumber devuelve el último consecutivo del workspace (0 si no hay pedidos).
func (r *OrderRepo) LastNumber(workspaceID string) (int64, error) {
	query := `SELECT COALESCE(MAX(number), 0) FROM orders WHERE workspace_id = $1`
	var last int64
	if err := r.q.QueryRow(context.Background(), query, workspaceID).Scan(&last); err != nil {
		return 0, fmt.Errorf("last order number: %w", err)
	}
	return last, nil
}

// CountCreatedSince cuenta pedidos creados desde el instante dado.
func (r *OrderRepo) CountCreatedSince(workspaceID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE workspace_id = $1 AND created_at >= $2`
	var n int
	if err := r.q.QueryRow(context.Background(), query, workspaceID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders since: %w", err)
	}
	return n, nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotals persiste los totales recalculados.
func (r *OrderRepo) UpdateTotals(id string, subtotal, total decimal.Decimal) error {
	query := `UPDATE orders SET subtotal = $2, total = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, subtotal, total)
	if err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateItem inserta una línea del pedido.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items
			(id, order_id, product_id, variant_id, sku, name, quantity, unit_price, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, item.VariantID, item.SKU, item.Name,
		item.Quantity, item.UnitPrice, item.Total, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}

// ListItems lista las líneas de un pedido en orden de inserción.
func (r *OrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, variant_id, sku, name, quantity, unit_price, total, created_at, updated_at
		FROM order_items WHERE order_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.SKU, &it.Name,
			&it.Quantity, &it.UnitPrice, &it.Total, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// UpdateItemQuantity lleva la línea a la cantidad y total dados.
func (r *OrderRepo) UpdateItemQuantity(itemID string, quantity int, total decimal.Decimal) error {
	query := `UPDATE order_items SET quantity = $2, total = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, quantity, total)
	if err != nil {
		return fmt.Errorf("update order item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina una línea del pedido.
func (r *OrderRepo) DeleteItem(itemID string) error {
	query := `DELETE FROM order_items WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, itemID); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

// CreateStatusHistory inserta una transición en el historial del pedido.
func (r *OrderRepo) CreateStatusHistory(h *entity.OrderStatusHistory) error {
	query := `
		INSERT INTO order_status_history (id, order_id, from_status, to_status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		h.ID, h.OrderID, h.FromStatus, h.ToStatus, h.Note, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create status history: %w", err)
	}
	return nil
}

// ListStatusHistory lista el historial de estados en orden cronológico.
func (r *OrderRepo) ListStatusHistory(orderID string) ([]*entity.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, from_status, to_status, note, created_at
		FROM order_status_history WHERE order_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderStatusHistory
	for rows.Next() {
		var h entity.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.FromStatus, &h.ToStatus, &h.Note, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
