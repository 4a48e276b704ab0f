package render

import "review_ai/internal/domain"

// ReviewPageSize is how many review cards are visible before "Load More".
const ReviewPageSize = 10

// ReviewPane splits reviews into the visible cards and the ones behind the
// one-shot "Load More" control.
type ReviewPane struct {
	Shown  []domain.Review
	Hidden []domain.Review
}

func Paginate(rs []domain.Review) ReviewPane {
	if len(rs) <= ReviewPageSize {
		return ReviewPane{Shown: rs}
	}
	return ReviewPane{Shown: rs[:ReviewPageSize], Hidden: rs[ReviewPageSize:]}
}

func (p ReviewPane) HasMore() bool { return len(p.Hidden) > 0 }

// Expand is the pane after "Load More": everything visible, no control.
func (p ReviewPane) Expand() ReviewPane {
	all := make([]domain.Review, 0, len(p.Shown)+len(p.Hidden))
	all = append(all, p.Shown...)
	all = append(all, p.Hidden...)
	return ReviewPane{Shown: all}
}
