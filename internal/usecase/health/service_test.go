package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockScorerChecker struct {
	err error
}

func (m *mockScorerChecker) HealthCheck(_ context.Context) error { return m.err }

type mockModelChecker struct {
	ready bool
}

func (m *mockModelChecker) Ready() bool { return m.ready }

// --- Tests ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		scorer     ScorerChecker
		spam       ModelChecker
		wantStatus Status
		wantChecks map[string]CheckResult
	}{
		{
			name:       "all healthy",
			scorer:     &mockScorerChecker{},
			spam:       &mockModelChecker{ready: true},
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{ComponentScorer: CheckOK, ComponentSpamModel: CheckOK},
		},
		{
			name:       "spam model missing",
			scorer:     &mockScorerChecker{},
			spam:       &mockModelChecker{},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{ComponentScorer: CheckOK, ComponentSpamModel: CheckError},
		},
		{
			name:       "scorer down",
			scorer:     &mockScorerChecker{err: errors.New("timeout")},
			spam:       &mockModelChecker{ready: true},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{ComponentScorer: CheckError, ComponentSpamModel: CheckOK},
		},
		{
			name:       "everything down",
			scorer:     &mockScorerChecker{err: errors.New("timeout")},
			spam:       &mockModelChecker{},
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{ComponentScorer: CheckError, ComponentSpamModel: CheckError},
		},
		{
			name:       "no spam checker",
			scorer:     &mockScorerChecker{},
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{ComponentScorer: CheckOK},
		},
		{
			name:       "nothing to check",
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.scorer, tc.spam).Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			if len(r.Checks) != len(tc.wantChecks) {
				t.Fatalf("checks = %v, want %v", r.Checks, tc.wantChecks)
			}
			for k, want := range tc.wantChecks {
				if r.Checks[k] != want {
					t.Errorf("check %q = %q, want %q", k, r.Checks[k], want)
				}
			}
		})
	}
}
