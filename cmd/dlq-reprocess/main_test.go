package main

import (
	"testing"

	"github.com/IBM/sarama"

	"github.com/polarbookshop/orderservice/internal/messaging/kafka"
)

func TestExtractReplayMessage(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Topic: kafka.TopicDeadLetterQueue,
		Value: []byte(`{
			"original_topic": "order-dispatched",
			"original_key": "order-1",
			"original_value": "{\"order_id\":\"order-1\"}",
			"error_message": "load order order-1: timeout"
		}`),
	}

	replay, ok := extractReplayMessage(msg, kafka.TopicOrderDispatched)
	if !ok {
		t.Fatal("expected replayable message")
	}
	if replay.topic != "order-dispatched" {
		t.Fatalf("expected original topic, got %s", replay.topic)
	}
	if replay.key != "order-1" {
		t.Fatalf("expected key order-1, got %s", replay.key)
	}
	if string(replay.value) != `{"order_id":"order-1"}` {
		t.Fatalf("unexpected replay value: %s", replay.value)
	}
}

func TestExtractReplayMessageFallbackTopic(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Value: []byte(`{"original_key":"order-1","original_value":"{\"order_id\":\"order-1\"}"}`),
	}

	replay, ok := extractReplayMessage(msg, kafka.TopicOrderDispatched)
	if !ok {
		t.Fatal("expected replayable message")
	}
	if replay.topic != kafka.TopicOrderDispatched {
		t.Fatalf("expected fallback topic, got %s", replay.topic)
	}
}

func TestExtractReplayMessageUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "garbage"},
		{"empty original value", `{"original_topic":"order-dispatched","original_value":""}`},
		{"unrelated payload", `{"order_id":"order-1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &sarama.ConsumerMessage{Value: []byte(tt.value)}
			if _, ok := extractReplayMessage(msg, kafka.TopicOrderDispatched); ok {
				t.Fatal("expected message to be skipped")
			}
		})
	}
}

func TestParseBrokers(t *testing.T) {
	brokers := parseBrokers("broker-1:9092, ,broker-2:9092")
	if len(brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", brokers)
	}
}
