package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"validation", NewValidationError("work_id", "required"), KindInvalidInput},
		{"wrapped not found", fmt.Errorf("get work: %w", ErrNotFound), KindNotFound},
		{"unresolved", ErrIdentityUnresolved, KindIdentityUnresolved},
		{"misconfigured", fmt.Errorf("docstore: %w", ErrMisconfigured), KindStoreMisconfigured},
		{"anything else", errors.New("connection refused"), KindStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestGenerationKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"unconfigured", ErrMisconfigured, KindGenerationUnconfigured},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindGenerationTimeout},
		{"timeout", ErrTimeout, KindGenerationTimeout},
		{"validation", NewValidationError("feedback", "required"), KindInvalidInput},
		{"api error", errors.New("401 unauthorized"), KindGenerationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GenerationKindOf(tt.err); got != tt.want {
				t.Errorf("GenerationKindOf(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestResult_OkAndFail(t *testing.T) {
	t.Parallel()

	ok := Ok([]string{"a"})
	if !ok.OK() || ok.Err != nil {
		t.Fatalf("Ok result should be OK, got kind=%s err=%v", ok.Kind, ok.Err)
	}

	failed := Fail([]string{}, errors.New("boom"))
	if failed.OK() {
		t.Fatal("Fail result should not be OK")
	}
	if failed.Kind != KindStoreUnavailable {
		t.Errorf("kind = %s, want %s", failed.Kind, KindStoreUnavailable)
	}
	if failed.Value == nil {
		t.Error("fallback value should be preserved")
	}
}
