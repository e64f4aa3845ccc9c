package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL.
// El libro es solo-inserción: nunca hay UPDATE ni DELETE sobre movimientos.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento del libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, stock_item_id, type, delta, previous_qty, new_qty, reason, reference_type, reference_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.StockItemID, m.Type, m.Delta, m.PreviousQty, m.NewQty,
		m.Reason, m.ReferenceType, m.ReferenceID, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByStockItem lista movimientos de un renglón, más recientes primero.
func (r *StockMovementRepo) ListByStockItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, type, delta, previous_qty, new_qty, reason, reference_type, reference_id, created_at, created_by
		FROM stock_movements
		WHERE stock_item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, stockItemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.StockItemID, &m.Type, &m.Delta, &m.PreviousQty, &m.NewQty,
			&m.Reason, &m.ReferenceType, &m.ReferenceID, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
