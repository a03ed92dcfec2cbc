package verdict

import "github.com/kailas-cloud/vibecheck/internal/domain"

// Label is the spam classification outcome.
type Label string

// Label constants.
const (
	Spam Label = "Spam"
	Ham  Label = "Ham"
)

// Verdict is a spam classification with the winning class probability.
type Verdict struct {
	label       Label
	probability float64
}

// New creates a verdict. probability is the winning class probability in [0, 1].
func New(label Label, probability float64) Verdict {
	return Verdict{label: label, probability: probability}
}

// Label returns Spam or Ham.
func (v *Verdict) Label() Label { return v.label }

// Probability returns the winning class probability.
func (v *Verdict) Probability() float64 { return v.probability }

// Confidence renders the probability as "NN.N%".
func (v *Verdict) Confidence() string { return domain.FormatPercent(v.probability * 100) }
