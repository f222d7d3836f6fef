package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	base := stderrors.New("disk full")
	wrapped := Wrap(base, ErrCodeStorage, "failed to write file")
	outer := fmt.Errorf("export: %w", wrapped)

	if got := CodeOf(outer); got != ErrCodeStorage {
		t.Errorf("CodeOf = %s", got)
	}
	if got := CodeOf(base); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %s", got)
	}
	if !Is(Wrap(New(ErrCodeNotFound, "gone"), ErrCodeImageFetch, "fetch"), ErrCodeImageFetch) {
		t.Error("outermost code should win")
	}
	if !stderrors.Is(outer, base) {
		t.Error("cause should stay reachable")
	}
}

func TestErrorString(t *testing.T) {
	if got := New(ErrCodeInvalidReq, "bad").Error(); got != "[INVALID_REQUEST] bad" {
		t.Errorf("Error() = %q", got)
	}
	if got := Wrap(stderrors.New("eof"), ErrCodeInternal, "read").Error(); got != "[INTERNAL_ERROR] read: eof" {
		t.Errorf("Error() = %q", got)
	}
}
