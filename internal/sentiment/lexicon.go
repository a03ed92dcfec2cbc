package sentiment

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Entry is the lexicon record for one word.
type Entry struct {
	Polarity     float64 `yaml:"polarity"`
	Subjectivity float64 `yaml:"subjectivity"`
	Intensity    float64 `yaml:"intensity"` // 0 means 1
	Modifier     bool    `yaml:"modifier"`  // intensifies the next known word ("very good")
}

func (e Entry) intensity() float64 {
	if e.Intensity <= 0 {
		return 1
	}
	return e.Intensity
}

// Lexicon is an immutable word table. Safe for concurrent reads once built.
type Lexicon struct {
	words     map[string]Entry
	negations map[string]struct{}
	emoticons map[string]float64
}

type lexiconFile struct {
	Negations []string           `yaml:"negations"`
	Emoticons map[string]float64 `yaml:"emoticons"`
	Words     map[string]Entry   `yaml:"words"`
}

// DefaultLexicon parses the embedded lexicon.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a lexicon from path, or the embedded default when path is empty.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates a YAML lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(f.Words) == 0 {
		return nil, fmt.Errorf("lexicon has no words")
	}

	lex := &Lexicon{
		words:     make(map[string]Entry, len(f.Words)),
		negations: make(map[string]struct{}, len(f.Negations)),
		emoticons: make(map[string]float64, len(f.Emoticons)),
	}
	for w, e := range f.Words {
		if e.Polarity < -1 || e.Polarity > 1 {
			return nil, fmt.Errorf("word %q: polarity %v out of [-1, 1]", w, e.Polarity)
		}
		if e.Subjectivity < 0 || e.Subjectivity > 1 {
			return nil, fmt.Errorf("word %q: subjectivity %v out of [0, 1]", w, e.Subjectivity)
		}
		if e.Intensity < 0 {
			return nil, fmt.Errorf("word %q: negative intensity", w)
		}
		lex.words[strings.ToLower(w)] = e
	}
	for _, n := range f.Negations {
		lex.negations[strings.ToLower(n)] = struct{}{}
	}
	for e, p := range f.Emoticons {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("emoticon %q: polarity %v out of [-1, 1]", e, p)
		}
		lex.emoticons[strings.ToLower(e)] = p
	}
	return lex, nil
}

// Len returns the number of words.
func (l *Lexicon) Len() int { return len(l.words) }

func (l *Lexicon) lookup(w string) (Entry, bool) {
	e, ok := l.words[w]
	return e, ok
}

func (l *Lexicon) isNegation(w string) bool {
	_, ok := l.negations[w]
	return ok
}

func (l *Lexicon) emoticon(w string) (float64, bool) {
	p, ok := l.emoticons[w]
	return p, ok
}
