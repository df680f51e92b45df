package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecommerce"

type Metrics struct {
	registry *prometheus.Registry

	OrdersPlaced           prometheus.Counter
	OrderPlacementFailures *prometheus.CounterVec
	OrderValue             prometheus.Histogram
	PaymentsCreated        prometheus.Counter
	PaymentFailures        *prometheus.CounterVec
	ProcessorLatency       prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "placed_total",
			Help: "Orders committed by the placement engine.",
		}),
		OrderPlacementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "placement_failures_total",
			Help: "Order placements that were rejected or rolled back, by error code.",
		}, []string{"reason"}),
		OrderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "orders", Name: "total_value",
			Help:    "Order totals in major currency units.",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		}),
		PaymentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "payments", Name: "created_total",
			Help: "Payment intents created and recorded.",
		}),
		PaymentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "payments", Name: "failures_total",
			Help: "Payment creations that failed, by error code.",
		}, []string{"reason"}),
		ProcessorLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "payments", Name: "processor_seconds",
			Help:    "Latency of payment processor intent creation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersPlaced,
		m.OrderPlacementFailures,
		m.OrderValue,
		m.PaymentsCreated,
		m.PaymentFailures,
		m.ProcessorLatency,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
