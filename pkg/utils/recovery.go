package utils

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// PanicError is a recovered panic returned as an error.
type PanicError struct {
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func newPanicError(r any) *PanicError {
	return &PanicError{Value: r, StackTrace: string(debug.Stack())}
}

// RecoverAsError turns a panic into an error stored in errPtr. Defer it at
// the top of a function with a named error result:
//
//	func rank() (err error) {
//	    defer utils.RecoverAsError(&err)
//	    ...
//	}
func RecoverAsError(errPtr *error) {
	if r := recover(); r != nil {
		perr := newPanicError(r)
		slog.Error("Recovered from panic", "panic", r, "stack", perr.StackTrace)
		*errPtr = perr
	}
}

// SafeGoWithResult runs fn in a goroutine. The returned channel receives
// fn's error, or a *PanicError if fn panics, and is closed when fn returns.
func SafeGoWithResult(fn func() error) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		defer func() {
			if r := recover(); r != nil {
				perr := newPanicError(r)
				slog.Error("Recovered from panic in goroutine", "panic", r, "stack", perr.StackTrace)
				errCh <- perr
			}
		}()
		if err := fn(); err != nil {
			errCh <- err
		}
	}()
	return errCh
}
