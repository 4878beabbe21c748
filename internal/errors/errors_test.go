package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(New("boom"), ExitSystem),
			want: "boom",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	underlying := ErrDocumentShape
	err := NewUserError(underlying, "initialize the project first")

	if !stderrors.Is(err, ErrDocumentShape) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("errors.As should find *ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion != "initialize the project first" {
		t.Errorf("Suggestion = %q", exitErr.Suggestion)
	}
}

func TestSentinels_Distinguishable(t *testing.T) {
	wrapped := Wrap(ErrDocumentShape, "syncing claude-code")

	if !Is(wrapped, ErrDocumentShape) {
		t.Error("wrapped shape error should match ErrDocumentShape")
	}
	if Is(wrapped, ErrParse) {
		t.Error("shape error must not match ErrParse")
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError(New("bad config"))
	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
	if err.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}
