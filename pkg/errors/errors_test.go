package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "Same code different message",
			err:    New(ErrCodeStaleRound, "round 4 is over"),
			target: ErrStaleRound,
			want:   true,
		},
		{
			name:   "Wrapped with fmt",
			err:    fmt.Errorf("submit: %w", New(ErrCodeLobbyClosed, "closed")),
			target: ErrLobbyClosed,
			want:   true,
		},
		{
			name:   "Different code",
			err:    New(ErrCodeNotEligible, "not a player"),
			target: ErrAlreadyAnswered,
			want:   false,
		},
		{
			name:   "Plain error",
			err:    stderrors.New("boom"),
			target: ErrAlreadyActive,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	cause := stderrors.New("dial tcp: timeout")
	err := fmt.Errorf("load bank: %w", Wrap(cause, ErrCodeInternalError, "query failed"))

	if got := CodeOf(err); got != ErrCodeInternalError {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeInternalError)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable through Unwrap")
	}
	if got := CodeOf(cause); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}
