package simcore

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestWrapfPreservesCause(t *testing.T) {
	wrapped := wrapf(ErrUnknownFighterKey, "loading %q", "base")
	if wrapped == nil {
		t.Fatal("expected a non-nil wrapped error")
	}
	if pkgerrors.Cause(wrapped) != ErrUnknownFighterKey {
		t.Error("expected pkg/errors.Cause to unwrap to the sentinel")
	}
}

func TestWrapfNilPassesThrough(t *testing.T) {
	if wrapf(nil, "anything") != nil {
		t.Error("expected wrapping a nil error to return nil")
	}
}
