package spam

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// defaultTokenPattern matches words of two or more characters.
const defaultTokenPattern = `\b\w\w+\b`

// VectorizerArtifact is the serialized text vectorizer.
type VectorizerArtifact struct {
	Lowercase    *bool          `json:"lowercase"`
	TokenPattern string         `json:"token_pattern"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf,omitempty"`
	Norm         string         `json:"norm,omitempty"` // "", "l1", "l2"
	Binary       bool           `json:"binary,omitempty"`
}

// Vectorizer turns text into a term-weight vector.
type Vectorizer struct {
	lowercase  bool
	pattern    *regexp.Regexp
	vocabulary map[string]int
	idf        []float64
	norm       string
	binary     bool
}

// NewVectorizer validates an artifact and compiles it.
func NewVectorizer(a VectorizerArtifact) (*Vectorizer, error) {
	if len(a.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer: empty vocabulary")
	}
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= len(a.Vocabulary) {
			return nil, fmt.Errorf("vectorizer: term %q has index %d outside [0, %d)", term, idx, len(a.Vocabulary))
		}
	}
	if a.IDF != nil && len(a.IDF) != len(a.Vocabulary) {
		return nil, fmt.Errorf("vectorizer: idf has %d entries, vocabulary %d", len(a.IDF), len(a.Vocabulary))
	}
	switch a.Norm {
	case "", "l1", "l2":
	default:
		return nil, fmt.Errorf("vectorizer: unsupported norm %q", a.Norm)
	}

	pattern := a.TokenPattern
	if pattern == "" {
		pattern = defaultTokenPattern
	}
	// Python-style unicode flag has no RE2 equivalent and is the default there anyway.
	pattern = strings.TrimPrefix(pattern, "(?u)")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: token pattern: %w", err)
	}

	lowercase := true
	if a.Lowercase != nil {
		lowercase = *a.Lowercase
	}

	return &Vectorizer{
		lowercase:  lowercase,
		pattern:    re,
		vocabulary: a.Vocabulary,
		idf:        a.IDF,
		norm:       a.Norm,
		binary:     a.Binary,
	}, nil
}

// Features returns the vocabulary size.
func (v *Vectorizer) Features() int { return len(v.vocabulary) }

// Transform returns the dense term-weight vector of text.
func (v *Vectorizer) Transform(text string) []float64 {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	vec := make([]float64, len(v.vocabulary))
	for _, tok := range v.pattern.FindAllString(text, -1) {
		idx, ok := v.vocabulary[tok]
		if !ok {
			continue
		}
		if v.binary {
			vec[idx] = 1
		} else {
			vec[idx]++
		}
	}

	if v.idf != nil {
		for idx, idf := range v.idf {
			vec[idx] *= idf
		}
	}

	var norm float64
	switch v.norm {
	case "l1":
		for _, w := range vec {
			norm += math.Abs(w)
		}
	case "l2":
		for _, w := range vec {
			norm += w * w
		}
		norm = math.Sqrt(norm)
	}
	if norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}
