package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReconciliationPublisher отправляет события отложенной синхронизации
// в очередь entitlement.pending.
type ReconciliationPublisher struct {
	ch *amqp.Channel
}

// NewReconciliationPublisher создает издателя поверх открытого канала.
func NewReconciliationPublisher(ch *amqp.Channel) *ReconciliationPublisher {
	return &ReconciliationPublisher{ch: ch}
}

// PublishPendingSync публикует событие о платеже, по которому подписка
// пользователя еще не обновлена.
func (p *ReconciliationPublisher) PublishPendingSync(event any) error {
	return PublishMessage(p.ch, ExchangeName, PendingSyncKey, event)
}
