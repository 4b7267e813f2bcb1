package main

import "testing"

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("ORDERS_HTTP_ADDR", "")
	t.Setenv("ORDERS_METRICS_ADDR", "")
	t.Setenv("ORDERS_CONSUMER_GROUP", "")

	cfg := readConfig()

	if cfg.HTTPAddr != ":9002" {
		t.Fatalf("expected default http addr :9002, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Fatalf("expected default metrics addr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.ConsumerGroup != "order-service" {
		t.Fatalf("expected default consumer group, got %s", cfg.ConsumerGroup)
	}
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv("ORDERS_HTTP_ADDR", ":8080")
	t.Setenv("ORDERS_METRICS_ADDR", ":8081")
	t.Setenv("ORDERS_POSTGRES_DSN", "postgres://localhost/orders")
	t.Setenv("ORDERS_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("ORDERS_CONSUMER_GROUP", "orders-test")
	t.Setenv("ORDERS_JWT_SECRET", "secret")
	t.Setenv("ORDERS_CATALOG_URL", "http://catalog:9001")

	cfg := readConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.PostgresDSN != "postgres://localhost/orders" {
		t.Fatalf("unexpected dsn: %s", cfg.PostgresDSN)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.ConsumerGroup != "orders-test" {
		t.Fatalf("unexpected consumer group: %s", cfg.ConsumerGroup)
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("unexpected jwt secret: %s", cfg.JWTSecret)
	}
	if cfg.CatalogURL != "http://catalog:9001" {
		t.Fatalf("unexpected catalog url: %s", cfg.CatalogURL)
	}
}

func TestParseBrokers(t *testing.T) {
	brokers := parseBrokers(" broker-1:9092 ,, broker-2:9092 ")
	if len(brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", brokers)
	}
	if brokers[0] != "broker-1:9092" || brokers[1] != "broker-2:9092" {
		t.Fatalf("unexpected brokers: %v", brokers)
	}

	if got := parseBrokers(""); len(got) != 0 {
		t.Fatalf("expected no brokers, got %v", got)
	}
}
