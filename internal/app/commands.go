package app

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// PrefetchSummary counts prefetch results by state.
type PrefetchSummary struct {
	Complete   int
	InProgress int
	NoReviews  int
	Failed     int
}

type PrefetchService struct {
	analysis *AnalysisService
	workers  int
}

func NewPrefetchService(a *AnalysisService, workers int) *PrefetchService {
	if workers <= 0 {
		workers = 4
	}
	return &PrefetchService{analysis: a, workers: workers}
}

// Run looks up every token with at most p.workers in flight. Completed
// analyses land in the cache as a side effect of the lookup.
func (p *PrefetchService) Run(ctx context.Context, tokens []string) (PrefetchSummary, error) {
	sem := semaphore.NewWeighted(int64(p.workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sum PrefetchSummary
	)

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return sum, err
		}

		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			defer sem.Release(1)

			res := p.analysis.ByToken(ctx, token)
			mu.Lock()
			defer mu.Unlock()
			switch res.State {
			case StateComplete:
				sum.Complete++
			case StateInProgress:
				sum.InProgress++
			case StateNoReviews:
				sum.NoReviews++
			default:
				sum.Failed++
			}
			log.Info().Str("token", token).Str("state", string(res.State)).Msg("prefetch")
		}(tok)
	}

	wg.Wait()
	return sum, nil
}
