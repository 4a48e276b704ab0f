package reviewapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"review_ai/internal/adapters/reviewapi"
	"review_ai/internal/domain"
)

func TestClient_Suggest_PostsBodyWithNullCoords(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/suggestions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"suggestions": []map[string]any{{"value": "Gypsy Hotel", "subtext": "Kochi", "data_id": "0xabc"}},
		})
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, time.Second, 100, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := cl.Suggest(context.Background(), domain.SuggestionRequest{Value: "gypsy"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Suggestions) != 1 || out.Suggestions[0].DataID != "0xabc" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if got["value"] != "gypsy" {
		t.Fatalf("value not sent: %+v", got)
	}
	for _, k := range []string{"latitude", "longitude"} {
		v, ok := got[k]
		if !ok || v != nil {
			t.Fatalf("%s should be sent as null, got %v (present=%v)", k, v, ok)
		}
	}
}

func TestClient_GetAnalysis_InProgress(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"in_progress"}`))
	}))
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 0)
	a, err := cl.GetAnalysis(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Status != domain.StatusInProgress || a.Title != "" {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func TestClient_GetAnalysis_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analysis/tok-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"completed","title":"Sea Shore","rating":4.5,"total_reviews":2,
			"reviews":[{"user":"Ana","date":"a week ago","rating":5,"review_text":"great"}],
			"hotel_analysis":{"summary":"ok","top_improvement_priorities":[{"category":"Service","issue":"slow"}]}}`))
	}))
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 0)
	a, err := cl.GetAnalysis(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Title != "Sea Shore" || a.Rating != 4.5 || len(a.Reviews) != 1 || a.HotelAnalysis == nil {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	if a.HotelAnalysis.TopImprovementPriorities[0].Issue != "slow" {
		t.Fatalf("priorities not decoded: %+v", a.HotelAnalysis)
	}
}

func TestClient_GetAnalysis_404IsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 0)
	_, err := cl.GetAnalysis(context.Background(), "gone")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if domain.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", domain.StatusCode(err))
	}
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 0)
	_, err := cl.GetAnalysis(context.Background(), "tok")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly 1 call, got %d", n)
	}
}

func TestClient_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"title":"Third time"}`))
		}
	}))
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := cl.GetAnalysis(ctx, "tok")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Title != "Third time" {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls, got %d", hits)
	}
}

func TestClient_DownloadURL(t *testing.T) {
	cl, err := reviewapi.New("http://backend:8000/", time.Second, 1, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := cl.DownloadURL("abc 1"); got != "http://backend:8000/api/download/abc%201" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestNew_RejectsBadBase(t *testing.T) {
	if _, err := reviewapi.New("not a url", time.Second, 1, 0); err == nil {
		t.Fatalf("expected error for bad base URL")
	}
}

func TestClient_ExpiredTokenDetailIsTokenError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Invalid or expired token: abc"}`))
	}))
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 3)
	_, err := cl.GetAnalysis(context.Background(), "abc")
	if !errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if domain.StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected status 500 to be kept, got %d", domain.StatusCode(err))
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("a token error is final, expected 1 call, got %d", n)
	}
}

func TestClient_OtherServerErrorDetailStaysUpstream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Error fetching reviews: timeout"}`))
	}))
	defer ts.Close()

	cl, _ := reviewapi.New(ts.URL, time.Second, 100, 0)
	_, err := cl.GetAnalysis(context.Background(), "abc")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_RetriesWaitOnRateLimiter(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	// one request per second, burst 1: the first retry would need to wait
	// about a second, which the deadline does not allow
	cl, _ := reviewapi.New(ts.URL, time.Second, 1, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()

	_, err := cl.GetAnalysis(ctx, "tok")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected the last upstream error, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("retries must go through the limiter, got %d calls", n)
	}
}
