package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/suggestions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"suggestions":[
			{"value":"Gypsy Hotel","subtext":"CUSAT, Kochi","data_id":"0x1:0x2"},
			{"value":"Gypsy Inn","subtext":"Fort Kochi","data_id":"0x3"}]}`))
	})
	mux.HandleFunc("/api/analysis/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/api/analysis/") {
		case "tok-progress":
			_, _ = w.Write([]byte(`{"status":"in_progress"}`))
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		case "0x1:0x2", "tok-done":
			_, _ = w.Write([]byte(`{"status":"completed","title":"Gypsy Hotel","address":"CUSAT, Kochi","rating":3.5,
				"total_reviews":1,"reviews":[{"user":"Ana","date":"a week ago","rating":4,"review_text":"good stay"}],
				"hotel_analysis":{"summary":"Mostly positive.","top_improvement_priorities":[{"category":"Service","issue":"slow check-in"}]}}`))
		default:
			http.NotFound(w, r)
		}
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("BACKEND_RETRIES", "0")
	t.Setenv("SUGGEST_DEBOUNCE_MS", "5")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSuggest(t *testing.T) {
	ts := fakeBackend(t)

	out, _, err := run(t, "", "--backend", ts.URL, "suggest", "gypsy")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !strings.Contains(out, "1. Gypsy Hotel, CUSAT, Kochi (0x1:0x2)") || !strings.Contains(out, "2. Gypsy Inn") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, errOut, err := run(t, "", "--backend", ts.URL, "suggest", "gy")
	if err != nil || out != "" || !strings.Contains(errOut, "longer than 2") {
		t.Fatalf("short query: out=%q err=%q %v", out, errOut, err)
	}
}

func TestRetrieve_Text(t *testing.T) {
	ts := fakeBackend(t)

	out, _, err := run(t, "", "--backend", ts.URL, "retrieve", "tok-done")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	for _, want := range []string{"Gypsy Hotel", "★★★½☆ (3.5)", "Mostly positive.", "1. Service: slow check-in", "good stay"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	out, _, err = run(t, "", "--backend", ts.URL, "retrieve", "tok-progress")
	if err != nil || !strings.Contains(out, "in progress") {
		t.Fatalf("in progress: %q %v", out, err)
	}

	_, _, err = run(t, "", "--backend", ts.URL, "retrieve", "unknown")
	if err == nil || !strings.Contains(err.Error(), "expired or is invalid") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestRetrieve_HTMLFile(t *testing.T) {
	ts := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "analysis.html")

	_, _, err := run(t, "", "--backend", ts.URL, "retrieve", "--place", "--out", path, "0x1:0x2")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `data-panel="analysis"`) || !strings.Contains(string(b), "data-review-card") {
		t.Fatalf("unexpected html:\n%s", b)
	}
}

func TestPrefetch(t *testing.T) {
	ts := fakeBackend(t)
	list := filepath.Join(t.TempDir(), "tokens.txt")
	_ = os.WriteFile(list, []byte("# warm these\ntok-done\n\ntok-progress\ntok-done\n"), 0o600)

	out, _, err := run(t, "", "--backend", ts.URL, "prefetch", "--retries", "0", "--file", list)
	if err != nil {
		t.Fatalf("prefetch: %v", err)
	}
	if strings.TrimSpace(out) != "complete=1 in_progress=1 no_reviews=0 failed=0" {
		t.Fatalf("unexpected summary %q", out)
	}

	out, _, err = run(t, "boom\n", "--backend", ts.URL, "prefetch", "--retries", "0", "-f", "-", "tok-done")
	if err == nil || !strings.Contains(out, "complete=1") || !strings.Contains(out, "failed=1") {
		t.Fatalf("expected one failure: %q %v", out, err)
	}

	if _, _, err := run(t, "", "--backend", ts.URL, "prefetch"); err == nil {
		t.Fatalf("expected error without tokens")
	}
}

func TestSearch_Session(t *testing.T) {
	ts := fakeBackend(t)
	script := strings.Join([]string{
		":go",
		"gy",
		"gypsy",
		":pick 9",
		":pick 1",
		":go",
		":reset",
		":token tok-progress",
		":quit",
		"never read",
	}, "\n")

	out, _, err := run(t, script, "--backend", ts.URL, "search")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, want := range []string{
		"pick a suggestion first",
		"1. Gypsy Hotel, CUSAT, Kochi (0x1:0x2)",
		"no such suggestion",
		"selected: Gypsy Hotel CUSAT, Kochi",
		"Analyzing reviews...",
		"Mostly positive.",
		"cleared",
		"Analysis in progress",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "1. Gypsy Hotel") != 1 {
		t.Fatalf("short query should not list suggestions:\n%s", out)
	}
}

func TestRecent_NeedsDatabase(t *testing.T) {
	ts := fakeBackend(t)
	if _, _, err := run(t, "", "--backend", ts.URL, "recent"); err == nil || !strings.Contains(err.Error(), "MYSQL_DSN") {
		t.Fatalf("expected MYSQL_DSN error, got %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	ts := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "reviewctl.yaml")
	_ = os.WriteFile(path, []byte("backend_base_url: "+ts.URL+"\n"), 0o600)

	out, _, err := run(t, "", "--config", path, "suggest", "gypsy")
	if err != nil || !strings.Contains(out, "Gypsy Hotel") {
		t.Fatalf("config backend not used: %q %v", out, err)
	}

	if _, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "suggest", "gypsy"); err == nil {
		t.Fatalf("expected error for missing config")
	}
}
