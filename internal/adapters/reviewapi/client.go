// internal/adapters/reviewapi/client.go
package reviewapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"review_ai/internal/adapters/observability"
	"review_ai/internal/domain"
)

const maxBody = 8 << 20

type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	retries int
}

// New builds a backend client. retries is the number of extra attempts on
// 429/5xx/network failures; 0 disables retrying.
func New(base string, timeout time.Duration, rps, retries int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", base)
	}
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: timeout},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		retries: retries,
	}, nil
}

// ---- Public API ----

func (c *Client) Suggest(ctx context.Context, in domain.SuggestionRequest) (domain.SuggestionResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return domain.SuggestionResult{}, err
	}
	var out domain.SuggestionResult
	raw, err := c.do(ctx, "suggestions", http.MethodPost, c.base+"/api/suggestions", body)
	if err != nil {
		return domain.SuggestionResult{}, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.SuggestionResult{}, fmt.Errorf("decode suggestions: %w", err)
	}
	return out, nil
}

func (c *Client) GetAnalysis(ctx context.Context, key string) (domain.Analysis, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Analysis{}, domain.ErrNotFound
	}
	raw, err := c.do(ctx, "analysis", http.MethodGet, c.base+"/api/analysis/"+url.PathEscape(key), nil)
	if err != nil {
		return domain.Analysis{}, err
	}
	if !gjson.ValidBytes(raw) {
		return domain.Analysis{}, fmt.Errorf("decode analysis: invalid JSON")
	}
	// {"status":"in_progress"} carries nothing else worth decoding.
	if gjson.GetBytes(raw, "status").String() == domain.StatusInProgress {
		return domain.Analysis{Status: domain.StatusInProgress}, nil
	}
	var out domain.Analysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return out, nil
}

// DownloadURL is the browser-navigated PDF endpoint for a token.
func (c *Client) DownloadURL(token string) string {
	return c.base + "/api/download/" + url.PathEscape(strings.TrimSpace(token))
}

// ---- Internals ----

// do performs one logical request with client-side rate limiting and up to
// c.retries retries on 429 and transient 5xx, honoring Retry-After.
func (c *Client) do(ctx context.Context, endpoint, method, u string, body []byte) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.retries; i++ {
		more := i < c.retries

		// every attempt, retries included, spends a limiter token
		if err := c.rl.Wait(ctx); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		// build a fresh request each attempt
		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rdr)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "review-ai-web/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("backend", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrUpstream, err)
			if more && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal("backend", endpoint, resp.StatusCode, time.Since(start))
		log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("backend call")

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			return b, err
		}

		// read a small error body for diagnostics
		wait := retryAfter(resp)
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		se := statusError(resp.StatusCode, b)

		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !transient || se.Kind != nil {
			return nil, se
		}
		lastErr = se
		if wait == 0 {
			wait = backoff(i)
		}
		if more && sleepCtx(ctx, wait) {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, lastErr
	}
	return nil, lastErr
}

// statusError keeps the code and classifies bodies the backend uses for
// expired or unknown tokens; it answers those with a 500 and a FastAPI
// {"detail": "..."} body.
func statusError(code int, body []byte) *domain.StatusError {
	se := &domain.StatusError{Code: code, Body: strings.TrimSpace(string(body))}
	if !gjson.ValidBytes(body) {
		return se
	}
	detail := strings.ToLower(gjson.GetBytes(body, "detail").String())
	if strings.Contains(detail, "expired token") || strings.Contains(detail, "invalid or expired") {
		se.Kind = domain.ErrTokenInvalid
	}
	return se
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
