package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/polarbookshop/orderservice/internal/catalog"
	"github.com/polarbookshop/orderservice/internal/domain"
	"github.com/polarbookshop/orderservice/internal/handler"
	healthcheck "github.com/polarbookshop/orderservice/internal/health"
	"github.com/polarbookshop/orderservice/internal/messaging/kafka"
	"github.com/polarbookshop/orderservice/internal/service/order"
	"github.com/polarbookshop/orderservice/internal/storage/memory"
	"github.com/polarbookshop/orderservice/internal/storage/postgres"
	"github.com/polarbookshop/orderservice/internal/version"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr      string
	MetricsAddr   string
	PostgresDSN   string
	KafkaBrokers  []string
	ConsumerGroup string
	JWTSecret     string
	CatalogURL    string
}

// DefaultConfig возвращает базовые адреса для HTTP API и метрик.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":9002",
		MetricsAddr:   ":9090",
		ConsumerGroup: "order-service",
	}
}

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	// Хранилище: PostgreSQL при наличии DSN, иначе in-memory для разработки.
	var (
		repo  domain.OrderRepository
		store *postgres.Store
	)
	if cfg.PostgresDSN != "" {
		st, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		}()
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
		store = st
		repo = postgres.NewOrderRepository(st)
		logger.Info("postgres storage initialized")
	} else {
		logger.Warn("postgres DSN is not configured, using in-memory storage")
		repo = memory.NewOrderRepository()
	}

	// Каталог книг: HTTP-клиент или mock без настроенного адреса.
	var bookCatalog domain.BookCatalog
	if cfg.CatalogURL != "" {
		bookCatalog = catalog.NewClient(cfg.CatalogURL)
		logger.WithField("url", cfg.CatalogURL).Info("catalog client initialized")
	} else {
		logger.Warn("catalog URL is not configured, using mock catalog (all orders will be rejected)")
		bookCatalog = catalog.NewMockCatalog()
	}

	// Инициализация Kafka producer (опционально)
	var (
		kafkaProducer *kafka.Producer
		publisher     domain.EventPublisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			kafkaProducer = producer
			publisher = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	svc := order.NewService(repo, bookCatalog, publisher, logger.WithField("component", "order-service"))

	// Consumer dispatch-уведомлений с DLQ. Работает только вместе с producer:
	// он же используется для отправки failed messages в DLQ.
	var kafkaConsumer *kafka.Consumer
	if kafkaProducer != nil {
		dispatchHandler := func(ctx context.Context, message *sarama.ConsumerMessage) error {
			event, err := kafka.ParseOrderDispatchedMessage(message)
			if err != nil {
				return err
			}
			return svc.HandleOrderDispatched(ctx, event.OrderID)
		}

		consumer, err := kafka.NewConsumerWithDLQ(
			cfg.KafkaBrokers,
			cfg.ConsumerGroup,
			[]string{kafka.TopicOrderDispatched},
			dispatchHandler,
			kafkaProducer,
			3,
		)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka consumer, dispatch notifications disabled")
		} else {
			if err := consumer.Start(ctx); err != nil {
				logger.WithError(err).Warn("failed to start kafka consumer")
			} else {
				kafkaConsumer = consumer
			}
		}
	}

	// HTTP Health checks
	healthHandler := healthcheck.NewHandler(version.String())
	if store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.NewRouter(svc, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	stopKafka := func() {
		if kafkaConsumer != nil {
			if err := kafkaConsumer.Stop(); err != nil {
				logger.WithError(err).Warn("failed to stop kafka consumer")
			}
		}
		if kafkaProducer != nil {
			if err := kafkaProducer.Close(); err != nil {
				logger.WithError(err).Warn("failed to close kafka producer")
			} else {
				logger.Info("kafka producer closed")
			}
		}
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		stopKafka()
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		stopKafka()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
