package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"review_ai/internal/app"
	"review_ai/internal/domain"
	"review_ai/internal/render"
)

func writeSuggestions(w io.Writer, items []domain.Suggestion) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	for i, s := range items {
		fmt.Fprintf(w, "%d. %s, %s (%s)\n", i+1, s.Value, s.Subtext, s.DataID)
	}
}

// writeResult prints the text rendition of the panel the web page would show.
func writeResult(w io.Writer, res app.Result) {
	switch {
	case res.State == app.StateInProgress:
		fmt.Fprintln(w, "Analysis in progress. Please check back later.")
		return
	case res.State == app.StateNoReviews:
		fmt.Fprintln(w, "No reviews found for this place.")
		return
	case res.State != app.StateComplete || res.Analysis == nil:
		msg := res.Message
		if msg == "" {
			msg = app.MsgNetwork
		}
		fmt.Fprintln(w, "Error:", msg)
		return
	}

	a := res.Analysis
	fmt.Fprintln(w, a.Title)
	if a.Address != "" {
		fmt.Fprintln(w, a.Address)
	}
	fmt.Fprintf(w, "%s (%v)  Total reviews: %d\n", render.Stars(a.Rating), a.Rating, a.TotalReviews)

	if h := a.HotelAnalysis; h != nil {
		if h.Summary != "" {
			fmt.Fprintf(w, "\n%s\n", h.Summary)
		}
		s := h.OverallSentiment
		fmt.Fprintf(w, "\nSentiment: %v/5  positive %v%%  neutral %v%%  negative %v%%\n",
			s.AverageScore, s.PositivePercentage, s.NeutralPercentage, s.NegativePercentage)
		if len(h.TopImprovementPriorities) > 0 {
			fmt.Fprintln(w, "\nTop improvement priorities:")
			for i, p := range h.TopImprovementPriorities {
				fmt.Fprintf(w, "  %d. %s: %s\n", i+1, p.Category, p.Issue)
				if p.Suggestion != "" {
					fmt.Fprintf(w, "     %s\n", p.Suggestion)
				}
			}
		}
	}

	pane := render.Paginate(a.Reviews)
	if len(pane.Shown) > 0 {
		fmt.Fprintln(w, "\nReviews:")
	}
	for _, r := range pane.Shown {
		fmt.Fprintf(w, "  %s  %s  %s\n    %s\n", render.Stars(r.Rating), r.User, r.Date, strings.TrimSpace(r.ReviewText))
	}
	if pane.HasMore() {
		fmt.Fprintf(w, "  ... %d more (use retrieve --out to see all)\n", len(pane.Hidden))
	}
}

// textView prints session updates line by line and remembers the last list
// so ":pick N" can refer to it.
type textView struct {
	w io.Writer

	mu   sync.Mutex
	last []domain.Suggestion
}

func (v *textView) Suggestions(out app.SuggestOutcome) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if out.Skipped {
		v.last = nil
		return
	}
	v.last = out.Items
	writeSuggestions(v.w, out.Items)
}

func (v *textView) Selected(_ domain.Suggestion, input string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = nil
	fmt.Fprintln(v.w, "selected:", input)
}

func (v *textView) Loading(domain.Entry) {
	fmt.Fprintln(v.w, "Analyzing reviews...")
}

func (v *textView) Show(res app.Result) {
	writeResult(v.w, res)
}

func (v *textView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = nil
	fmt.Fprintln(v.w, "cleared")
}

func (v *textView) pick(n int) (domain.Suggestion, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > len(v.last) {
		return domain.Suggestion{}, false
	}
	return v.last[n-1], true
}
