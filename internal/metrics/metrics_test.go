package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	_, m := NewRegistry()

	m.LoginAttempt("master", "success")
	m.LoginAttempt("master", "success")
	m.LoginAttempt("tenant-user", "invalid_credentials")
	m.BackendRequest("POST", 401)
	m.BackendRequest("GET", 0)
	m.SessionExpired()
	m.TabsSwept(3)
	m.TabsSwept(0)

	if got := testutil.ToFloat64(m.LoginAttempts.WithLabelValues("master", "success")); got != 2 {
		t.Errorf("master successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.BackendRequests.WithLabelValues("GET", "error")); got != 1 {
		t.Errorf("transport errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SweptTabs); got != 3 {
		t.Errorf("swept tabs = %v, want 3", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.LoginAttempt("master", "success")
	m.Logout()
	m.RouteDecision("master", "anonymous", "redirect")
	m.BackendRequest("GET", 200)
	m.SessionExpired()
	m.TabsSwept(1)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg, m := NewRegistry()
	m.RouteDecision("tenant", "tenant_authorized", "render")

	ts := httptest.NewServer(Handler(reg))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "loginhub_route_decisions_total") {
		t.Errorf("expected route decision metric in output, got: %s", body)
	}
}
