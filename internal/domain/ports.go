package domain

import (
	"context"
	"time"
)

// ReviewAPI is the externally owned analysis backend.
type ReviewAPI interface {
	Suggest(ctx context.Context, req SuggestionRequest) (SuggestionResult, error)
	// GetAnalysis returns the raw document for an id or token. A document whose
	// status is StatusInProgress is returned without error.
	GetAnalysis(ctx context.Context, key string) (Analysis, error)
	DownloadURL(token string) string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// LookupLog records analysis lookups.
type LookupLog interface {
	Record(ctx context.Context, l Lookup) error
	Recent(ctx context.Context, limit int) ([]Lookup, error)
}

// Entry is the way an analysis was requested.
type Entry string

const (
	EntryPlace Entry = "place"
	EntryToken Entry = "token"
)

type Lookup struct {
	Key    string
	Entry  Entry
	State  string
	Title  string
	Status int
	SeenAt time.Time
}
