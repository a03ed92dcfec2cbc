package spam

import (
	"math"
	"testing"

	"github.com/kailas-cloud/vibecheck/internal/domain/verdict"
)

func loadTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := Load("testdata/vectorizer.json", "testdata/classifier.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestPredict_Spam(t *testing.T) {
	m := loadTestModel(t)
	v := m.Predict("WIN a FREE prize, call now to claim")
	if v.Label() != verdict.Spam {
		t.Errorf("Label() = %q, want Spam", v.Label())
	}
	if v.Probability() < 0.99 {
		t.Errorf("Probability() = %v, want > 0.99", v.Probability())
	}
}

func TestPredict_Ham(t *testing.T) {
	m := loadTestModel(t)
	v := m.Predict("Lunch meeting tomorrow? Thanks")
	if v.Label() != verdict.Ham {
		t.Errorf("Label() = %q, want Ham", v.Label())
	}
}

func TestPredict_UnknownWordsFallBackToPrior(t *testing.T) {
	m := loadTestModel(t)
	v := m.Predict("zzz qqq")
	if v.Label() != verdict.Ham {
		t.Errorf("Label() = %q, want Ham", v.Label())
	}
	if v.Confidence() != "87.0%" {
		t.Errorf("Confidence() = %q, want 87.0%%", v.Confidence())
	}
}

func TestPredict_Deterministic(t *testing.T) {
	m := loadTestModel(t)
	first := m.Predict("free lunch now")
	for range 5 {
		if got := m.Predict("free lunch now"); got != first {
			t.Fatalf("non-deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name       string
		vectorizer string
		classifier string
	}{
		{"missing vectorizer", "testdata/nope.json", "testdata/classifier.json"},
		{"missing classifier", "testdata/vectorizer.json", "testdata/nope.json"},
		{"broken json", "testdata/broken.json", "testdata/classifier.json"},
		{"dimension mismatch", "testdata/vectorizer.json", "testdata/classifier_mismatch.json"},
		{"empty path", "", "testdata/classifier.json"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.vectorizer, tc.classifier); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVectorizer_Transform(t *testing.T) {
	v, err := NewVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"free": 0, "prize": 1},
		IDF:        []float64{2, 1},
		Norm:       "l2",
	})
	if err != nil {
		t.Fatalf("NewVectorizer: %v", err)
	}

	vec := v.Transform("FREE free prize x")
	// counts (2, 1) * idf (2, 1) = (4, 1), l2 norm sqrt(17)
	n := math.Sqrt(17)
	if math.Abs(vec[0]-4/n) > 1e-9 || math.Abs(vec[1]-1/n) > 1e-9 {
		t.Errorf("Transform = %v", vec)
	}
}

func TestVectorizer_Binary(t *testing.T) {
	v, err := NewVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"win": 0},
		Binary:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Transform("win win win")[0]; got != 1 {
		t.Errorf("binary weight = %v, want 1", got)
	}
}

func TestNewVectorizer_Validation(t *testing.T) {
	tests := []struct {
		name string
		a    VectorizerArtifact
	}{
		{"empty vocabulary", VectorizerArtifact{}},
		{"index out of range", VectorizerArtifact{Vocabulary: map[string]int{"a": 5}}},
		{"idf length", VectorizerArtifact{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1, 2}}},
		{"bad norm", VectorizerArtifact{Vocabulary: map[string]int{"a": 0}, Norm: "max"}},
		{"bad pattern", VectorizerArtifact{Vocabulary: map[string]int{"a": 0}, TokenPattern: "("}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewVectorizer(tc.a); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewClassifier_Validation(t *testing.T) {
	tests := []struct {
		name string
		a    ClassifierArtifact
	}{
		{"one class", ClassifierArtifact{Classes: []string{"ham"}}},
		{"prior count", ClassifierArtifact{
			Classes: []string{"ham", "spam"}, ClassLogPrior: []float64{0},
		}},
		{"row count", ClassifierArtifact{
			Classes: []string{"ham", "spam"}, ClassLogPrior: []float64{0, 0},
			FeatureLogProb: [][]float64{{0}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewClassifier(tc.a, 1); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsSpamClass(t *testing.T) {
	for _, name := range []string{"spam", "SPAM", "1", " true "} {
		if !isSpamClass(name) {
			t.Errorf("%q should be spam", name)
		}
	}
	for _, name := range []string{"ham", "0", ""} {
		if isSpamClass(name) {
			t.Errorf("%q should not be spam", name)
		}
	}
}
