// Package spam loads a vectorizer + classifier artifact pair and predicts Spam/Ham.
package spam

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/vibecheck/internal/domain/verdict"
)

// Model is a loaded, immutable artifact pair. Safe for concurrent use.
type Model struct {
	vectorizer *Vectorizer
	classifier *Classifier
}

// Load reads both artifacts from disk.
func Load(vectorizerPath, classifierPath string) (*Model, error) {
	var va VectorizerArtifact
	if err := readJSON(vectorizerPath, &va); err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	var ca ClassifierArtifact
	if err := readJSON(classifierPath, &ca); err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	return New(va, ca)
}

// New builds a model from decoded artifacts.
func New(va VectorizerArtifact, ca ClassifierArtifact) (*Model, error) {
	v, err := NewVectorizer(va)
	if err != nil {
		return nil, err
	}
	c, err := NewClassifier(ca, v.Features())
	if err != nil {
		return nil, err
	}
	return &Model{vectorizer: v, classifier: c}, nil
}

// Predict classifies text. The verdict probability is that of the winning class.
func (m *Model) Predict(text string) verdict.Verdict {
	proba := m.classifier.PredictProba(m.vectorizer.Transform(text))

	best := 0
	for k := range proba {
		if proba[k] > proba[best] {
			best = k
		}
	}

	label := verdict.Ham
	if isSpamClass(m.classifier.Classes()[best]) {
		label = verdict.Spam
	}
	return verdict.New(label, proba[best])
}

func readJSON(path string, v any) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
