package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// Topics для обмена событиями заказов.
const (
	// TopicOrderAccepted — исходящие уведомления о принятых заказах.
	TopicOrderAccepted = "order-accepted"
	// TopicOrderDispatched — входящие уведомления о переданных в доставку заказах.
	TopicOrderDispatched = "order-dispatched"
	// TopicDeadLetterQueue — Dead Letter Queue для failed messages.
	TopicDeadLetterQueue = "order-dlq"
)

// Kafka headers для retry логики.
const (
	HeaderRetryCount = "x-retry-count"
)

// OrderAcceptedMessage — событие о принятом заказе.
type OrderAcceptedMessage struct {
	OrderID string `json:"order_id"`
}

// OrderDispatchedMessage — уведомление о передаче заказа в доставку.
type OrderDispatchedMessage struct {
	OrderID string `json:"order_id"`
}

// ParseOrderDispatchedMessage парсит уведомление о доставке из сообщения Kafka.
func ParseOrderDispatchedMessage(message *sarama.ConsumerMessage) (*OrderDispatchedMessage, error) {
	var event OrderDispatchedMessage
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order dispatched message: %w", err)
	}
	if event.OrderID == "" {
		return nil, fmt.Errorf("order dispatched message without order_id")
	}
	return &event, nil
}
