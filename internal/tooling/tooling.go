// Package tooling runs the OS utilities that report USB and disk state.
package tooling

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrUnavailable is returned when an OS utility cannot be run or its output
// cannot be understood. It aborts the enumeration that triggered it.
var ErrUnavailable = errors.New("tooling unavailable")

// Runner executes a command and returns its stdout. Failures wrap
// ErrUnavailable.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Exec runs the named command with exec.CommandContext
func Exec(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, Unavailable(name, err)
	}
	return out, nil
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds
func Unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, what, err)
}
