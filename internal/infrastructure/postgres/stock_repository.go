package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// variant_id y location_id se guardan como '' cuando no aplican, para que la
// clave única (workspace, producto, variante, ubicación) funcione sin NULLs.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, workspace_id, product_id, variant_id, location_id, quantity, reserved, updated_at`

// Get obtiene el renglón de stock; nil sin error si no existe.
func (r *StockRepo) Get(key entity.StockKey) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_items
		WHERE workspace_id = $1 AND product_id = $2 AND variant_id = $3 AND location_id = $4`
	return r.scanOne(query, key, "get stock")
}

// GetForUpdate obtiene el renglón y bloquea la fila (SELECT FOR UPDATE)
// dentro de la transacción en curso; nil sin error si no existe.
func (r *StockRepo) GetForUpdate(key entity.StockKey) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_items
		WHERE workspace_id = $1 AND product_id = $2 AND variant_id = $3 AND location_id = $4
		FOR UPDATE`
	return r.scanOne(query, key, "get stock for update")
}

// Upsert inserta o actualiza los contadores del renglón.
func (r *StockRepo) Upsert(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, workspace_id, product_id, variant_id, location_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (workspace_id, product_id, variant_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.WorkspaceID, item.ProductID, item.VariantID, item.LocationID,
		item.Quantity, item.Reserved,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) scanOne(query string, key entity.StockKey, op string) (*entity.StockItem, error) {
	var s entity.StockItem
	err := r.q.QueryRow(context.Background(), query,
		key.WorkspaceID, key.ProductID, key.VariantID, key.LocationID,
	).Scan(
		&s.ID, &s.WorkspaceID, &s.ProductID, &s.VariantID, &s.LocationID,
		&s.Quantity, &s.Reserved, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
