package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"review_ai/internal/domain"
)

// ---- fakes ----

type fakeAPI struct {
	mu          sync.Mutex
	analyses    map[string]domain.Analysis
	errs        map[string]error
	suggestions map[string][]domain.Suggestion
	suggestErr  error
	suggestWait map[string]time.Duration
	lastReq     domain.SuggestionRequest

	suggestCalls  int32
	analysisCalls int32
}

func (f *fakeAPI) Suggest(ctx context.Context, req domain.SuggestionRequest) (domain.SuggestionResult, error) {
	atomic.AddInt32(&f.suggestCalls, 1)
	f.mu.Lock()
	f.lastReq = req
	wait := f.suggestWait[req.Value]
	items := f.suggestions[req.Value]
	err := f.suggestErr
	f.mu.Unlock()
	if wait > 0 {
		time.Sleep(wait)
	}
	if err != nil {
		return domain.SuggestionResult{}, err
	}
	return domain.SuggestionResult{Suggestions: items}, nil
}

func (f *fakeAPI) GetAnalysis(ctx context.Context, key string) (domain.Analysis, error) {
	atomic.AddInt32(&f.analysisCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[key]; ok {
		return domain.Analysis{}, err
	}
	a, ok := f.analyses[key]
	if !ok {
		return domain.Analysis{}, &domain.StatusError{Code: 404}
	}
	return a, nil
}

func (f *fakeAPI) DownloadURL(token string) string { return "http://backend/api/download/" + token }

func (f *fakeAPI) request() domain.SuggestionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type fakeLog struct {
	mu  sync.Mutex
	got []domain.Lookup
}

func (l *fakeLog) Record(ctx context.Context, lk domain.Lookup) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, lk)
	return nil
}

func (l *fakeLog) Recent(ctx context.Context, limit int) ([]domain.Lookup, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Lookup(nil), l.got...), nil
}

func completeAnalysis(title string, reviews int) domain.Analysis {
	a := domain.Analysis{
		Title:         title,
		Address:       "1 Beach Road",
		Rating:        4.3,
		TotalReviews:  reviews,
		HotelAnalysis: &domain.HotelAnalysis{Summary: "Guests liked it."},
	}
	for i := 0; i < reviews; i++ {
		a.Reviews = append(a.Reviews, domain.Review{User: "guest", Rating: 4, ReviewText: "fine"})
	}
	return a
}
