package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	// Счётчики решений по заказам
	ordersSubmitted *prometheus.CounterVec

	// Счётчики событий о принятых заказах
	acceptedEventsPublished prometheus.Counter
	acceptedEventsFailed    prometheus.Counter

	// Счётчики обработки dispatch-уведомлений
	dispatchProcessed prometheus.Counter
	dispatchDropped   prometheus.Counter
	dispatchConflicts prometheus.Counter

	// Гистограмма времени обработки заявки
	submitDuration prometheus.Histogram
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersSubmitted: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Total number of submitted orders grouped by decision",
		}, []string{"decision"}),
		acceptedEventsPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_accepted_events_published_total",
			Help: "Total number of order accepted events published",
		}),
		acceptedEventsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_accepted_events_failed_total",
			Help: "Total number of order accepted events that failed to publish",
		}),
		dispatchProcessed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_dispatch_processed_total",
			Help: "Total number of dispatch notifications applied to orders",
		}),
		dispatchDropped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_dispatch_dropped_total",
			Help: "Total number of dispatch notifications dropped (unknown or already dispatched orders)",
		}),
		dispatchConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_dispatch_version_conflicts_total",
			Help: "Total number of optimistic concurrency conflicts during dispatch updates",
		}),
		submitDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_submit_duration_seconds",
			Help:    "Duration of order submission in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderSubmitted увеличивает счётчик решений по заказам.
func (m *OrderMetrics) RecordOrderSubmitted(decision string) {
	m.ordersSubmitted.WithLabelValues(decision).Inc()
}

// RecordAcceptedEventPublished увеличивает счётчик опубликованных событий.
func (m *OrderMetrics) RecordAcceptedEventPublished() {
	m.acceptedEventsPublished.Inc()
}

// RecordAcceptedEventFailed увеличивает счётчик неудачных публикаций.
func (m *OrderMetrics) RecordAcceptedEventFailed() {
	m.acceptedEventsFailed.Inc()
}

// RecordDispatchProcessed увеличивает счётчик применённых dispatch-уведомлений.
func (m *OrderMetrics) RecordDispatchProcessed() {
	m.dispatchProcessed.Inc()
}

// RecordDispatchDropped увеличивает счётчик отброшенных dispatch-уведомлений.
func (m *OrderMetrics) RecordDispatchDropped() {
	m.dispatchDropped.Inc()
}

// RecordDispatchConflict увеличивает счётчик конфликтов версий.
func (m *OrderMetrics) RecordDispatchConflict() {
	m.dispatchConflicts.Inc()
}

// RecordSubmitDuration записывает время обработки заявки.
func (m *OrderMetrics) RecordSubmitDuration(duration time.Duration) {
	m.submitDuration.Observe(duration.Seconds())
}
