package coro

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// frameError wraps a value recovered from a panic inside a Frame's body,
// retaining the stack at the point of the panic so a caller debugging a
// re-raised panic (via Resume or Destroy) isn't left with just the %v.
type frameError struct {
	value any
	stack []byte
}

func (e *frameError) Error() string {
	return fmt.Sprintf("%v", e.value)
}

// ErrorWithStack renders the panic value alongside the stack captured at
// the moment it was recovered.
func (e *frameError) ErrorWithStack() string {
	return fmt.Sprintf("%v\n\n%s", e.value, e.stack)
}

func (e *frameError) Unwrap() error {
	err, ok := e.value.(error)
	if !ok {
		return nil
	}
	return err
}

// Trace walks the Unwrap chain rooted at err, rendering every frameError
// it finds with its captured stack. Plain errors in the chain are
// rendered with Error() alone.
func Trace(err error) string {
	var sb strings.Builder
	seen := make(map[error]bool)

	var walk func(error)
	walk = func(e error) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true

		if fe, ok := e.(*frameError); ok {
			sb.WriteString(fe.ErrorWithStack())
		} else {
			sb.WriteString(e.Error())
		}

		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, ue := range multi.Unwrap() {
				walk(ue)
			}
		} else if ue := errors.Unwrap(e); ue != nil {
			walk(ue)
		}
	}

	walk(err)
	return sb.String()
}

func newPanicError(v any) error {
	return &frameError{
		value: v,
		stack: debug.Stack(),
	}
}
