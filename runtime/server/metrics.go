// Metrics instruments the dispatch loop with Prometheus counters and a
// latency histogram, grounded on core/system_health_logging.go's
// registry-scoped gauge/counter construction (NewRegistry + MustRegister
// at setup time, Set/Inc/Observe during operation).
package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"erpc/runtime/status"
)

// Metrics holds the server's dispatch-loop Prometheus instruments. A nil
// *Metrics is valid everywhere it's accepted — dispatch simply skips
// instrumentation, since metrics are ambient observability spec.md's
// Non-goals never required excluding.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	decodeErrors    prometheus.Counter
	handlerDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the dispatch-loop instruments against reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "erpc_server_requests_total",
			Help: "Total dispatched requests, labeled by service, function and resulting status.",
		}, []string{"service_id", "function_id", "status"}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erpc_server_decode_errors_total",
			Help: "Total requests that failed to decode a header before dispatch.",
		}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "erpc_server_handler_duration_seconds",
			Help: "Dispatcher handler latency, labeled by service and function.",
		}, []string{"service_id", "function_id"}),
	}
	reg.MustRegister(m.requestsTotal, m.decodeErrors, m.handlerDuration)
	return m
}

func (m *Metrics) recordDecodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) recordDispatch(serviceID, functionID uint32, st status.Status, dur time.Duration) {
	if m == nil {
		return
	}
	sid := strconv.FormatUint(uint64(serviceID), 10)
	fid := strconv.FormatUint(uint64(functionID), 10)
	m.requestsTotal.WithLabelValues(sid, fid, st.Kind.String()).Inc()
	m.handlerDuration.WithLabelValues(sid, fid).Observe(dur.Seconds())
}
