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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID devuelve el cliente; nil sin error si no existe.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `
		SELECT id, workspace_id, name, phone, email, order_count, total_spent, last_order_at, created_at, updated_at
		FROM customers WHERE id = $1`
	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.WorkspaceID, &c.Name, &c.Phone, &c.Email,
		&c.OrderCount, &c.TotalSpent, &c.LastOrderAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ApplyOrderStats suma los deltas a los agregados del cliente. Los deltas
// pueden ser negativos (reverso por cancelación); last_order_at solo cambia
// si lastOrderAt no es nil.
func (r *CustomerRepo) ApplyOrderStats(id string, orders int, amount decimal.Decimal, lastOrderAt *time.Time) error {
	query := `
		UPDATE customers SET
			order_count = order_count + $2,
			total_spent = total_spent + $3,
			last_order_at = COALESCE($4, last_order_at),
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, orders, amount, lastOrderAt)
	if err != nil {
		return fmt.Errorf("apply customer order stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
