package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"review_ai/internal/adapters/observability"
	"review_ai/internal/domain"
)

// State is what the analysis panel ends up showing.
type State string

const (
	StateComplete   State = "complete"
	StateInProgress State = "in_progress"
	StateNoReviews  State = "no_reviews"
	StateError      State = "error"
)

const (
	MsgNetwork      = "Network response was not ok"
	MsgTokenExpired = "This analysis token has expired or is invalid."
)

// Result of one analysis lookup. Analysis is set only for StateComplete.
type Result struct {
	Entry    domain.Entry
	Key      string
	State    State
	Analysis *domain.Analysis
	Message  string
	Err      error
}

type AnalysisService struct {
	api      domain.ReviewAPI
	cache    domain.Cache
	lookups  domain.LookupLog
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewAnalysisService(api domain.ReviewAPI, c domain.Cache, l domain.LookupLog, ttl time.Duration) *AnalysisService {
	return &AnalysisService{api: api, cache: c, lookups: l, cacheTTL: ttl}
}

// ByPlace fetches the analysis for a place selected from the suggestions.
func (s *AnalysisService) ByPlace(ctx context.Context, dataID string) Result {
	return s.lookup(ctx, domain.EntryPlace, dataID)
}

// ByToken fetches a previously requested analysis job.
func (s *AnalysisService) ByToken(ctx context.Context, token string) Result {
	return s.lookup(ctx, domain.EntryToken, token)
}

func (s *AnalysisService) DownloadURL(token string) string { return s.api.DownloadURL(token) }

func (s *AnalysisService) Recent(ctx context.Context, limit int) ([]domain.Lookup, error) {
	if s.lookups == nil {
		return nil, nil
	}
	return s.lookups.Recent(ctx, limit)
}

func (s *AnalysisService) lookup(ctx context.Context, entry domain.Entry, key string) Result {
	key = strings.TrimSpace(key)
	res := Result{Entry: entry, Key: key}

	a, err := s.fetch(ctx, key)
	switch {
	case err != nil:
		res.State = StateError
		res.Err = err
		res.Message = MsgNetwork
		if entry == domain.EntryToken && (errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTokenInvalid)) {
			res.Message = MsgTokenExpired
		}
		log.Warn().Str("entry", string(entry)).Str("key", key).Err(err).Msg("analysis lookup failed")
	case a.Status == domain.StatusInProgress:
		res.State = StateInProgress
	case a.Empty():
		res.State = StateNoReviews
	default:
		res.State = StateComplete
		res.Analysis = &a
	}

	observability.ObserveAnalysis(string(entry), string(res.State))
	s.record(ctx, res)
	return res
}

func (s *AnalysisService) fetch(ctx context.Context, key string) (domain.Analysis, error) {
	if key == "" {
		return domain.Analysis{}, domain.ErrNotFound
	}
	ck := "analysis:" + key
	if s.cache != nil {
		var cached domain.Analysis
		if ok, _ := s.cache.Get(ctx, ck, &cached); ok {
			return cached, nil
		}
	}

	// Concurrent lookups of the same key share one backend call. The call
	// outlives any single caller; the client timeout bounds it.
	ch := s.sf.DoChan(key, func() (any, error) {
		return s.api.GetAnalysis(context.WithoutCancel(ctx), key)
	})
	var r singleflight.Result
	select {
	case <-ctx.Done():
		return domain.Analysis{}, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return domain.Analysis{}, r.Err
	}
	a := r.Val.(domain.Analysis)

	// finished documents never change; in-progress ones must be re-read
	if s.cache != nil && a.Status != domain.StatusInProgress && !a.Empty() {
		if err := s.cache.Set(ctx, ck, a, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return a, nil
}

func (s *AnalysisService) record(ctx context.Context, res Result) {
	if s.lookups == nil || res.Key == "" {
		return
	}
	l := domain.Lookup{Key: res.Key, Entry: res.Entry, State: string(res.State), Status: 200}
	if res.Analysis != nil {
		l.Title = res.Analysis.Title
	}
	if res.Err != nil {
		l.Status = domain.StatusCode(res.Err)
	}
	if err := s.lookups.Record(ctx, l); err != nil {
		log.Warn().Err(err).Str("key", res.Key).Msg("record lookup failed")
	}
}
