package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
)

var _ orders.IdempotencyStore = (*IdempotencyStore)(nil)

// idemPrefix espacio de claves de deduplicación de confirmaciones.
const idemPrefix = "idem:order:confirm:"

// IdempotencyStore guarda clave de confirmación -> id de pedido en Redis.
// La expiración la maneja Redis con el TTL de cada SET; no hay barrido.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore construye el store sobre el cliente dado.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Get devuelve el id de pedido registrado para la clave, o "" si no hay.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, idemPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get idempotency key: %w", err)
	}
	return val, nil
}

// Set registra la clave con el id de pedido y su TTL.
func (s *IdempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, idemPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}
	return nil
}
