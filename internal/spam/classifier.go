package spam

import (
	"fmt"
	"math"
	"strings"
)

// ClassifierArtifact is a serialized multinomial Naive Bayes model.
type ClassifierArtifact struct {
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// Classifier scores feature vectors per class.
type Classifier struct {
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
}

// NewClassifier validates an artifact against the expected feature count.
func NewClassifier(a ClassifierArtifact, features int) (*Classifier, error) {
	if len(a.Classes) < 2 {
		return nil, fmt.Errorf("classifier: need at least 2 classes, got %d", len(a.Classes))
	}
	if len(a.ClassLogPrior) != len(a.Classes) {
		return nil, fmt.Errorf("classifier: %d priors for %d classes", len(a.ClassLogPrior), len(a.Classes))
	}
	if len(a.FeatureLogProb) != len(a.Classes) {
		return nil, fmt.Errorf("classifier: %d feature rows for %d classes", len(a.FeatureLogProb), len(a.Classes))
	}
	for i, row := range a.FeatureLogProb {
		if len(row) != features {
			return nil, fmt.Errorf("classifier: class %q has %d features, vectorizer %d",
				a.Classes[i], len(row), features)
		}
	}
	return &Classifier{
		classes:        a.Classes,
		classLogPrior:  a.ClassLogPrior,
		featureLogProb: a.FeatureLogProb,
	}, nil
}

// PredictProba returns the posterior probability of each class.
func (c *Classifier) PredictProba(vec []float64) []float64 {
	jll := make([]float64, len(c.classes))
	for k := range c.classes {
		s := c.classLogPrior[k]
		for idx, w := range vec {
			if w != 0 {
				s += w * c.featureLogProb[k][idx]
			}
		}
		jll[k] = s
	}

	// log-sum-exp
	maxJLL := math.Inf(-1)
	for _, v := range jll {
		maxJLL = math.Max(maxJLL, v)
	}
	var sum float64
	for _, v := range jll {
		sum += math.Exp(v - maxJLL)
	}
	proba := make([]float64, len(jll))
	for k, v := range jll {
		proba[k] = math.Exp(v-maxJLL) / sum
	}
	return proba
}

// Classes returns the class names in artifact order.
func (c *Classifier) Classes() []string { return c.classes }

// isSpamClass reports whether a class name denotes spam.
func isSpamClass(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spam", "1", "true":
		return true
	default:
		return false
	}
}
