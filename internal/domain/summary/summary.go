package summary

import (
	"sort"

	"github.com/kailas-cloud/vibecheck/internal/domain/fragment"
	"github.com/kailas-cloud/vibecheck/internal/domain/vibe"
)

// DefaultTopN is the default size of each ranked list.
const DefaultTopN = 5

// Tally counts fragments per category.
type Tally struct {
	Positive int
	Negative int
	Neutral  int
	Total    int
}

// Summary is the ranked, truncated view over one batch of fragments.
type Summary struct {
	tally       Tally
	topPositive []fragment.Fragment
	topNegative []fragment.Fragment
}

// Build ranks fragments descending by score and cuts the extremes.
// The sort is stable, so equal scores keep extraction order.
// topPositive is the first topN, topNegative the last topN reversed (most negative first).
func Build(frags []fragment.Fragment, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make([]fragment.Fragment, len(frags))
	copy(ranked, frags)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	n := min(topN, len(ranked))

	top := make([]fragment.Fragment, n)
	copy(top, ranked[:n])

	bottom := make([]fragment.Fragment, 0, n)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		bottom = append(bottom, ranked[i])
	}

	return Summary{
		tally:       count(frags),
		topPositive: top,
		topNegative: bottom,
	}
}

func count(frags []fragment.Fragment) Tally {
	t := Tally{Total: len(frags)}
	for i := range frags {
		switch frags[i].Vibe() {
		case vibe.Positive:
			t.Positive++
		case vibe.Negative:
			t.Negative++
		default:
			t.Neutral++
		}
	}
	return t
}

// Tally returns the per-category counts.
func (s *Summary) Tally() Tally { return s.tally }

// TopPositive returns the highest-scored fragments, best first.
func (s *Summary) TopPositive() []fragment.Fragment { return s.topPositive }

// TopNegative returns the lowest-scored fragments, worst first.
func (s *Summary) TopNegative() []fragment.Fragment { return s.topNegative }
