package simcore

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel data-validation errors per spec.md §7. The core never returns
// these from inside a simulation step -- out-of-range action/frame indices
// are silently clamped there. They are returned by package loading,
// NewFrameLoop and the editor overlay's operations.
var (
	ErrUnknownFighterKey = errors.New("package: referenced fighter key not found")
	ErrUnknownStageKey   = errors.New("package: referenced stage key not found")
	ErrActionOutOfRange  = errors.New("player: action index out of range")
	ErrFrameOutOfRange   = errors.New("player: frame index out of range")
)

// wrapf annotates err with a formatted message and a stack trace, matching
// the boundary-error idiom the teacher used (errors.New(fmt.Sprintf(...)))
// but with a real cause chain instead of losing the original error.
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, fmt.Sprintf(format, args...))
}
