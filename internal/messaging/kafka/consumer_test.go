package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

func testConsumer(handler MessageHandler, maxRetries int) *Consumer {
	return &Consumer{
		handler:    handler,
		logger:     log.WithField("component", "test"),
		maxRetries: maxRetries,
	}
}

func TestGetRetryCount(t *testing.T) {
	c := testConsumer(nil, 3)

	msg := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("2")},
		},
	}
	if got := c.getRetryCount(msg); got != 2 {
		t.Fatalf("expected retry count 2, got %d", got)
	}

	if got := c.getRetryCount(&sarama.ConsumerMessage{}); got != 0 {
		t.Fatalf("expected 0 without header, got %d", got)
	}

	garbage := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("not-a-number")},
		},
	}
	if got := c.getRetryCount(garbage); got != 0 {
		t.Fatalf("expected 0 for malformed header, got %d", got)
	}
}

func TestHandleMessageWithRetrySuccess(t *testing.T) {
	calls := 0
	c := testConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		return nil
	}, 3)

	if err := c.handleMessageWithRetry(context.Background(), &sarama.ConsumerMessage{}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", calls)
	}
}

func TestHandleMessageWithRetryReturnsErrorBeforeMaxRetries(t *testing.T) {
	handlerErr := errors.New("transient failure")
	c := testConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		return handlerErr
	}, 3)

	// retry_count ниже лимита — ошибка возвращается для повторной обработки.
	if err := c.handleMessageWithRetry(context.Background(), &sarama.ConsumerMessage{}); !errors.Is(err, handlerErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestHandleMessageWithRetryExhaustedWithoutDLQ(t *testing.T) {
	handlerErr := errors.New("permanent failure")
	c := testConsumer(func(context.Context, *sarama.ConsumerMessage) error {
		return handlerErr
	}, 3)

	msg := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{
			{Key: []byte(HeaderRetryCount), Value: []byte("3")},
		},
	}

	// Без DLQ producer ошибка возвращается и после исчерпания retry.
	if err := c.handleMessageWithRetry(context.Background(), msg); !errors.Is(err, handlerErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
