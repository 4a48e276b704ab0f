package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"review_ai/internal/adapters/observability"
	"review_ai/internal/domain"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// suggestion lookup is sent.
const DefaultDebounce = 500 * time.Millisecond

// View receives everything a Session wants shown. Calls are serialised and
// made while the Session holds its lock, so a View must not call back into
// the Session.
type View interface {
	Suggestions(out SuggestOutcome)
	Selected(s domain.Suggestion, input string)
	Loading(entry domain.Entry)
	Show(res Result)
	Reset()
}

// Session is the search page state: the input, the selected place, the last
// known location and the pending suggestion lookup.
type Session struct {
	suggest  *SuggestService
	analysis *AnalysisService
	view     View
	debounce time.Duration
	ctx      context.Context

	mu       sync.Mutex
	input    string
	selected *domain.Suggestion
	location *domain.Coords
	timer    *time.Timer
	seq      uint64
	pending  sync.WaitGroup
}

func NewSession(ctx context.Context, s *SuggestService, a *AnalysisService, v View, debounce time.Duration) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Session{suggest: s, analysis: a, view: v, debounce: debounce, ctx: ctx}
}

// SetLocation caches the last known position; nil clears it.
func (s *Session) SetLocation(c *domain.Coords) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		s.location = nil
		return
	}
	cp := *c
	s.location = &cp
}

// Input records a new value of the search box. Only the last input within the
// debounce window is looked up, and a response is shown only if no newer
// input arrived while it was in flight.
func (s *Session) Input(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = q
	s.seq++
	s.stopTimerLocked()

	if !QueryEligible(q) {
		observability.ObserveSuggestion("skipped")
		s.view.Suggestions(SuggestOutcome{Skipped: true})
		return
	}

	seq := s.seq
	s.pending.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.pending.Done()
		s.fire(seq, q)
	})
}

func (s *Session) fire(seq uint64, q string) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	var loc *domain.Coords
	if s.location != nil {
		cp := *s.location
		loc = &cp
	}
	s.mu.Unlock()

	out := s.suggest.Suggest(s.ctx, q, loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		observability.ObserveSuggestion("stale")
		return
	}
	s.view.Suggestions(out)
}

// Select picks a suggestion: it becomes the place Generate analyses.
func (s *Session) Select(sug domain.Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.stopTimerLocked()
	cp := sug
	s.selected = &cp
	s.input = strings.TrimSpace(sug.Value + " " + sug.Subtext)
	s.view.Selected(cp, s.input)
}

// Generate fetches the analysis of the selected place.
func (s *Session) Generate(ctx context.Context) (Result, error) {
	s.mu.Lock()
	sel := s.selected
	if sel == nil {
		s.mu.Unlock()
		return Result{}, domain.ErrNoSelection
	}
	id := sel.DataID
	s.view.Loading(domain.EntryPlace)
	s.mu.Unlock()

	res := s.analysis.ByPlace(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Show(res)
	return res, nil
}

// Retrieve fetches a previously requested analysis job. A blank token is
// ignored.
func (s *Session) Retrieve(ctx context.Context, token string) (Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Result{}, domain.ErrTokenInvalid
	}
	s.mu.Lock()
	s.view.Loading(domain.EntryToken)
	s.mu.Unlock()

	res := s.analysis.ByToken(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Show(res)
	return res, nil
}

// Reset clears the search; the cached location survives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.stopTimerLocked()
	s.input = ""
	s.selected = nil
	s.view.Reset()
}

// Query is the current search box text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return ""
	}
	return s.selected.DataID
}

// Wait blocks until no suggestion lookup is scheduled or in flight.
func (s *Session) Wait() { s.pending.Wait() }

// Close cancels a scheduled lookup.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.stopTimerLocked()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil && s.timer.Stop() {
		s.pending.Done()
	}
	s.timer = nil
}
