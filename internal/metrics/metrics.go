package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the console.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	Logouts         prometheus.Counter
	RouteDecisions  *prometheus.CounterVec
	BackendRequests *prometheus.CounterVec
	SessionExpiries prometheus.Counter
	SweptTabs       prometheus.Counter
}

// New creates the collectors and registers them with registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginhub_login_attempts_total",
				Help: "Login attempts by resolved tier and outcome",
			},
			[]string{"tier", "outcome"},
		),
		Logouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loginhub_logouts_total",
				Help: "Explicit logouts",
			},
		),
		RouteDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginhub_route_decisions_total",
				Help: "Route authorizer decisions by requirement and state",
			},
			[]string{"requirement", "state", "decision"},
		),
		BackendRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginhub_backend_requests_total",
				Help: "Requests sent to the REST backend by method and status",
			},
			[]string{"method", "status"},
		),
		SessionExpiries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loginhub_session_expiries_total",
				Help: "Sessions cleared after the backend answered 401",
			},
		),
		SweptTabs: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loginhub_swept_tab_entries_total",
				Help: "Idle tab-scoped storage entries removed by the janitor",
			},
		),
	}
}

// NewRegistry creates a private registry with the console's metrics.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, New(reg)
}

// Handler serves the metrics of reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// LoginAttempt records the outcome of a login.
func (m *Metrics) LoginAttempt(tier, outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(tier, outcome).Inc()
}

// Logout records an explicit logout.
func (m *Metrics) Logout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

// RouteDecision records a guard evaluation.
func (m *Metrics) RouteDecision(requirement, state, decision string) {
	if m == nil {
		return
	}
	m.RouteDecisions.WithLabelValues(requirement, state, decision).Inc()
}

// BackendRequest records a backend call. status 0 means no response.
func (m *Metrics) BackendRequest(method string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.BackendRequests.WithLabelValues(method, label).Inc()
}

// SessionExpired records a session cleared by a backend 401.
func (m *Metrics) SessionExpired() {
	if m == nil {
		return
	}
	m.SessionExpiries.Inc()
}

// TabsSwept records entries removed by the tab storage janitor.
func (m *Metrics) TabsSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SweptTabs.Add(float64(n))
}
