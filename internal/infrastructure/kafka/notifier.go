package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
	"github.com/tu-usuario/chatcommerce-api/pkg/logger"
)

var _ orders.Notifier = (*Notifier)(nil)

// Notifier publica los eventos de pedido en Kafka. El tipo del evento es el
// topic (order.confirmed, order.modified, order.cancelled) y la clave de
// partición es el id del pedido, así los eventos de un mismo pedido conservan
// su orden. La escritura es async: una falla se loguea, nunca revierte el
// pedido ya confirmado.
type Notifier struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewNotifier construye el notificador contra los brokers dados.
func NewNotifier(brokers []string, log *logger.Logger) *Notifier {
	n := &Notifier{log: log}
	n.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range messages {
				log.Warn().Err(err).
					Str("topic", m.Topic).
					Str("key", string(m.Key)).
					Msg("publicación de evento falló")
			}
		},
	}
	return n
}

// Notify encola el evento. El topic sale del tipo del evento.
func (n *Notifier) Notify(ctx context.Context, e orders.OrderEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Topic: e.Type,
		Key:   []byte(e.OrderID),
		Value: payload,
		Time:  e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close vacía el buffer del writer y cierra la conexión.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
