package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"review_ai/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are non-empty
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveAnalysis("token", "in_progress")
	observability.ObserveSuggestion("skipped")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"reviewai_http_requests_total",
		`reviewai_analysis_outcomes_total{entry="token",state="in_progress"}`,
		`reviewai_suggestion_lookups_total{result="skipped"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestServe_ExposesAppRegistry(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveAnalysis("place", "complete")

	addr, err := observability.Serve("127.0.0.1:0", reg)
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	resp, err := http.Get("http://" + addr.String() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `reviewai_analysis_outcomes_total{entry="place",state="complete"}`) {
		t.Fatalf("side listener is missing app metrics:\n%s", body)
	}
}

func TestServe_EmptyAddrDisabled(t *testing.T) {
	addr, err := observability.Serve("", observability.InitRegistry())
	if addr != nil || err != nil {
		t.Fatalf("expected disabled listener, got %v %v", addr, err)
	}
}
