package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"review_ai/internal/adapters/observability"
	"review_ai/internal/domain"
)

// MinQueryLen is the shortest query that is sent to the backend, exclusive.
const MinQueryLen = 2

// NormalizeQuery trims and NFC-normalises a search string.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// QueryEligible reports whether q is long enough to look up.
func QueryEligible(q string) bool {
	return utf8.RuneCountInString(NormalizeQuery(q)) > MinQueryLen
}

// SuggestOutcome is what the suggestion dropdown shows. Skipped means the list
// is cleared without a lookup; an empty Items renders "No results found".
type SuggestOutcome struct {
	Skipped bool
	Items   []domain.Suggestion
}

type SuggestService struct {
	api      domain.ReviewAPI
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSuggestService(api domain.ReviewAPI, c domain.Cache, ttl time.Duration) *SuggestService {
	return &SuggestService{api: api, cache: c, cacheTTL: ttl}
}

// Suggest looks up places for q near loc. Backend failures degrade to an
// empty list.
func (s *SuggestService) Suggest(ctx context.Context, q string, loc *domain.Coords) SuggestOutcome {
	q = NormalizeQuery(q)
	if utf8.RuneCountInString(q) <= MinQueryLen {
		observability.ObserveSuggestion("skipped")
		return SuggestOutcome{Skipped: true}
	}

	key := suggestKey(q, loc)
	if s.cache != nil {
		var cached []domain.Suggestion
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			observability.ObserveSuggestion("results")
			return SuggestOutcome{Items: cached}
		}
	}

	req := domain.SuggestionRequest{Value: q}
	if loc != nil {
		lat, lon := loc.Lat, loc.Lon
		req.Latitude, req.Longitude = &lat, &lon
	}
	res, err := s.api.Suggest(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("query", q).Msg("suggestion lookup failed")
		observability.ObserveSuggestion("error")
		return SuggestOutcome{}
	}
	if len(res.Suggestions) == 0 {
		observability.ObserveSuggestion("empty")
		return SuggestOutcome{}
	}

	observability.ObserveSuggestion("results")
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, res.Suggestions, int(s.cacheTTL.Seconds()))
	}
	return SuggestOutcome{Items: res.Suggestions}
}

// suggestKey buckets coordinates to ~1km so nearby users share entries.
func suggestKey(q string, loc *domain.Coords) string {
	raw := strings.ToLower(q)
	if loc != nil {
		raw += fmt.Sprintf("|%.2f,%.2f", loc.Lat, loc.Lon)
	}
	sum := sha1.Sum([]byte(raw))
	return "suggest:" + hex.EncodeToString(sum[:])
}
