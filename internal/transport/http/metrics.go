package http

import (
	stdhttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtereshin/callview/internal/core"
)

// Metrics carries the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	WSClients       prometheus.Gauge
	LayoutEmissions *prometheus.CounterVec
	DroppedMessages prometheus.Counter
	TokensIssued    prometheus.Counter
}

// NewMetrics registers all collectors. Active sessions are sampled from the
// registry on scrape.
func NewMetrics(sessions *core.Sessions) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "callview_ws_clients",
			Help: "Currently connected WebSocket clients.",
		}),
		LayoutEmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "callview_layout_emissions_total",
			Help: "Settled layout emissions delivered to clients, by variant.",
		}, []string{"variant"}),
		DroppedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "callview_dropped_messages_total",
			Help: "Outbound messages dropped because a client was too slow.",
		}),
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "callview_tokens_issued_total",
			Help: "Call session tokens issued.",
		}),
	}

	reg.MustRegister(
		m.WSClients,
		m.LayoutEmissions,
		m.DroppedMessages,
		m.TokensIssued,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "callview_active_sessions",
			Help: "Call view-model sessions currently alive.",
		}, func() float64 { return float64(sessions.Count()) }),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() stdhttp.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
