// Package metrics exposes prometheus instrumentation for the Help Scout client.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "helpscout_client"

	statusTransportError = "error"
)

type Collector struct {
	Requests           *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	TokenInvalidations prometheus.Counter
	Errors             *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "HTTP round trips to the Help Scout API by method and status.",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Latency of HTTP round trips to the Help Scout API.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		TokenInvalidations: factory.NewCounter(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "token_invalidations_total",
				Help:      "Access tokens invalidated after an unauthorized response.",
			},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Calls that ended in a mapped API error, by kind.",
			},
			[]string{"kind"},
		),
	}
}

// ObserveRequest records one round trip. A status of 0 means the request
// never got a response.
func (c *Collector) ObserveRequest(method string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}

	label := statusTransportError
	if status > 0 {
		label = strconv.Itoa(status)
	}

	c.Requests.WithLabelValues(method, label).Inc()
	c.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) IncTokenInvalidation() {
	if c == nil {
		return
	}

	c.TokenInvalidations.Inc()
}

func (c *Collector) IncError(kind string) {
	if c == nil {
		return
	}

	c.Errors.WithLabelValues(kind).Inc()
}
