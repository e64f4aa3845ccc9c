package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

var _ repository.StockReservationRepository = (*StockReservationRepo)(nil)

// StockReservationRepo implementación de StockReservationRepository sobre PostgreSQL.
type StockReservationRepo struct {
	q Querier
}

// NewStockReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockReservationRepository(q Querier) *StockReservationRepo {
	return &StockReservationRepo{q: q}
}

const reservationColumns = `id, workspace_id, order_id, product_id, variant_id, quantity, status, expires_at, created_at, updated_at`

// Create inserta una reserva.
func (r *StockReservationRepo) Create(res *entity.StockReservation) error {
	query := `
		INSERT INTO stock_reservations
			(id, workspace_id, order_id, product_id, variant_id, quantity, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.WorkspaceID, res.OrderID, res.ProductID, res.VariantID,
		res.Quantity, res.Status, res.ExpiresAt, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetActive devuelve la reserva activa del pedido para el producto/variante;
// nil sin error si no hay.
func (r *StockReservationRepo) GetActive(orderID, productID, variantID string) (*entity.StockReservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE order_id = $1 AND product_id = $2 AND variant_id = $3 AND status = 'active'`
	var res entity.StockReservation
	err := r.q.QueryRow(context.Background(), query, orderID, productID, variantID).Scan(
		&res.ID, &res.WorkspaceID, &res.OrderID, &res.ProductID, &res.VariantID,
		&res.Quantity, &res.Status, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active reservation: %w", err)
	}
	return &res, nil
}

// ListActiveByOrder lista las reservas activas de un pedido.
func (r *StockReservationRepo) ListActiveByOrder(orderID string) ([]*entity.StockReservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE order_id = $1 AND status = 'active'
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list active reservations: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockReservation
	for rows.Next() {
		var res entity.StockReservation
		if err := rows.Scan(
			&res.ID, &res.WorkspaceID, &res.OrderID, &res.ProductID, &res.VariantID,
			&res.Quantity, &res.Status, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// UpdateQuantity ajusta en sitio la cantidad de una reserva.
func (r *StockReservationRepo) UpdateQuantity(id string, quantity int) error {
	query := `UPDATE stock_reservations SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update reservation quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkReleased marca la reserva como liberada.
func (r *StockReservationRepo) MarkReleased(id string) error {
	query := `UPDATE stock_reservations SET status = 'released', updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("mark reservation released: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
