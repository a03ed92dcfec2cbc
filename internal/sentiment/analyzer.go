// Package sentiment implements an in-process lexicon scorer.
//
// Each known word yields an assessment (polarity, subjectivity). A preceding
// modifier ("very") multiplies the assessment by its intensity, a preceding
// negation flips and halves the polarity, and "!" boosts the previous
// assessment. The text score is the mean over all assessments.
package sentiment

import (
	"context"
	"regexp"
	"strings"

	"github.com/kailas-cloud/vibecheck/internal/domain"
)

const (
	negationFactor    = -0.5
	exclamationFactor = 1.25
	irony             = "(!)"
)

var tokenRegex = regexp.MustCompile(`\(!\)|[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|!`)

// Analyzer scores text against a Lexicon. It is stateless and safe for concurrent use.
type Analyzer struct {
	lex *Lexicon
}

var _ domain.Scorer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer over a preloaded lexicon.
func NewAnalyzer(lex *Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

// Score implements domain.Scorer. It never fails; text with no known words scores (0, 0).
func (a *Analyzer) Score(_ context.Context, text string) (domain.Sentiment, error) {
	return a.Analyze(text), nil
}

// HealthCheck implements domain.HealthChecker.
func (a *Analyzer) HealthCheck(_ context.Context) error {
	if a.lex == nil || a.lex.Len() == 0 {
		return domain.ErrScorerUnavailable
	}
	return nil
}

type assessment struct {
	polarity     float64
	subjectivity float64
	intensity    float64
	negated      bool
}

// Analyze returns the sentiment of text.
func (a *Analyzer) Analyze(text string) domain.Sentiment {
	as := a.assess(tokenize(text, a.lex))
	if len(as) == 0 {
		return domain.Sentiment{}
	}

	var p, s float64
	for _, x := range as {
		if x.negated {
			p += x.polarity * negationFactor
		} else {
			p += x.polarity
		}
		s += x.subjectivity
	}
	n := float64(len(as))
	return domain.Sentiment{Polarity: p / n, Subjectivity: s / n}
}

//nolint:gocognit // mirrors the scoring rules one branch per rule
func (a *Analyzer) assess(tokens []string) []assessment {
	var (
		out      []assessment
		modifier bool // previous known word intensifies the next one
		negation bool // a negation is pending
	)

	for _, w := range tokens {
		if e, ok := a.lex.lookup(w); ok {
			if !modifier {
				out = append(out, assessment{
					polarity:     e.Polarity,
					subjectivity: e.Subjectivity,
					intensity:    e.intensity(),
				})
			} else {
				last := &out[len(out)-1]
				last.polarity = clamp(e.Polarity*last.intensity, -1, 1)
				last.subjectivity = clamp(e.Subjectivity*last.intensity, -1, 1)
				last.intensity = e.intensity()
			}
			if negation {
				last := &out[len(out)-1]
				last.intensity = 1 / last.intensity
				last.negated = true
			}
			modifier = e.Modifier
			negation = a.lex.isNegation(w)
			continue
		}

		// Unknown word. Negations survive one-letter words ("not a good").
		if a.lex.isNegation(w) {
			negation = true
		} else if negation && len(strings.Trim(w, "'")) > 1 {
			negation = false
		}

		// "really not good"
		if negation && modifier && len(out) > 0 {
			out[len(out)-1].negated = true
			negation = false
		} else if modifier && len([]rune(w)) > 2 {
			modifier = false
		}

		switch {
		case w == "!" && len(out) > 0:
			last := &out[len(out)-1]
			last.polarity = clamp(last.polarity*exclamationFactor, -1, 1)
		case w == irony:
			out = append(out, assessment{subjectivity: 1, intensity: 1})
		default:
			if p, ok := a.lex.emoticon(w); ok {
				out = append(out, assessment{polarity: p, subjectivity: 1, intensity: 1})
			}
		}
	}

	return out
}

// tokenize lowercases text and splits it into words, "!" marks and emoticons.
// Contractions are split so that "don't" yields "do" and "n't".
func tokenize(text string, lex *Lexicon) []string {
	var tokens []string
	for _, chunk := range strings.Fields(strings.ToLower(text)) {
		if _, ok := lex.emoticon(chunk); ok {
			tokens = append(tokens, chunk)
			continue
		}
		for _, t := range tokenRegex.FindAllString(chunk, -1) {
			t = strings.ReplaceAll(t, "’", "'")
			if stem, ok := strings.CutSuffix(t, "n't"); ok && stem != "" {
				tokens = append(tokens, stem, "n't")
				continue
			}
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
