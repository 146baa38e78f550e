package domain_test

import (
	"testing"

	"github.com/highveld-fm/commercial-api/internal/domain"
)

func TestAdvanceStage(t *testing.T) {
	tests := []struct {
		name     string
		current  domain.WorkflowStage
		target   domain.WorkflowStage
		expected domain.WorkflowStage
	}{
		{
			name:     "advances forward",
			current:  domain.StageSOW,
			target:   domain.StageQuotation,
			expected: domain.StageQuotation,
		},
		{
			name:     "skips intermediate stages",
			current:  domain.StageSOW,
			target:   domain.StagePayment,
			expected: domain.StagePayment,
		},
		{
			name:     "never regresses",
			current:  domain.StageInvoice,
			target:   domain.StageQuotation,
			expected: domain.StageInvoice,
		},
		{
			name:     "same stage is a no-op",
			current:  domain.StagePayment,
			target:   domain.StagePayment,
			expected: domain.StagePayment,
		},
		{
			name:     "completed is terminal",
			current:  domain.StageCompleted,
			target:   domain.StageSOW,
			expected: domain.StageCompleted,
		},
		{
			name:     "unknown target is ignored",
			current:  domain.StageQuotation,
			target:   domain.WorkflowStage("BOGUS"),
			expected: domain.StageQuotation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := domain.AdvanceStage(tc.current, tc.target)
			if result != tc.expected {
				t.Errorf("AdvanceStage(%q, %q) = %q, want %q", tc.current, tc.target, result, tc.expected)
			}
		})
	}
}

func TestWorkflowStageRank(t *testing.T) {
	ordered := []domain.WorkflowStage{
		domain.StageSOW,
		domain.StageQuotation,
		domain.StageInvoice,
		domain.StagePayment,
		domain.StageCompleted,
	}

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("expected %q to rank above %q", ordered[i], ordered[i-1])
		}
	}

	if domain.WorkflowStage("BOGUS").Rank() != -1 {
		t.Error("unknown stage should rank -1")
	}
}

func TestWorkflowStageIsValid(t *testing.T) {
	if !domain.StageQuotation.IsValid() {
		t.Error("QUOTATION should be valid")
	}
	if domain.WorkflowStage("").IsValid() {
		t.Error("empty stage should be invalid")
	}
}
