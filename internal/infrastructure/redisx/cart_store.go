package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
)

var _ orders.CartStore = (*CartStore)(nil)

// CartStore lee y limpia el snapshot de carrito que el subsistema de
// conversación deja en Redis por sesión. Aquí nunca se escribe el carrito.
type CartStore struct {
	client *redis.Client
}

// NewCartStore construye el store sobre el cliente dado.
func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

func cartKey(workspaceID, sessionID string) string {
	return fmt.Sprintf("cart:%s:%s", workspaceID, sessionID)
}

// Get devuelve el snapshot de la sesión, o nil si no hay carrito.
func (s *CartStore) Get(ctx context.Context, workspaceID, sessionID string) (*dto.CartSnapshot, error) {
	raw, err := s.client.Get(ctx, cartKey(workspaceID, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var cart dto.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

// Clear elimina el carrito de la sesión. Se llama solo después del commit.
func (s *CartStore) Clear(ctx context.Context, workspaceID, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(workspaceID, sessionID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
