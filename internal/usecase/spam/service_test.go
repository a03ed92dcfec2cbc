package spam

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/verdict"
	spammodel "github.com/kailas-cloud/vibecheck/internal/spam"
)

// --- Mocks ---

type mockClassifier struct {
	result verdict.Verdict
	calls  int
}

func (m *mockClassifier) Predict(_ string) verdict.Verdict {
	m.calls++
	return m.result
}

// --- Tests ---

func TestClassify_Success(t *testing.T) {
	m := &mockClassifier{result: verdict.New(verdict.Spam, 0.9731)}
	v, err := New(m).Classify(context.Background(), "WIN a free prize")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Label() != verdict.Spam {
		t.Errorf("Label() = %q, want Spam", v.Label())
	}
	if v.Confidence() != "97.3%" {
		t.Errorf("Confidence() = %q, want 97.3%%", v.Confidence())
	}
}

func TestClassify_NoModel(t *testing.T) {
	svc := New(nil)
	if svc.Ready() {
		t.Error("Ready() should be false without a model")
	}
	_, err := svc.Classify(context.Background(), "hello")
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	m := &mockClassifier{}
	for _, text := range []string{"", "   "} {
		_, err := New(m).Classify(context.Background(), text)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Classify(%q): expected ErrValidation, got %v", text, err)
		}
	}
	if m.calls != 0 {
		t.Error("model must not be called for empty text")
	}
}

func TestClassify_WithLoadedModel(t *testing.T) {
	model, err := spammodel.Load("../../spam/testdata/vectorizer.json", "../../spam/testdata/classifier.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	svc := New(model)
	if !svc.Ready() {
		t.Fatal("Ready() should be true")
	}

	v, err := svc.Classify(context.Background(), "Thanks for lunch, meeting tomorrow")
	if err != nil {
		t.Fatal(err)
	}
	if v.Label() != verdict.Ham {
		t.Errorf("Label() = %q, want Ham", v.Label())
	}
}
