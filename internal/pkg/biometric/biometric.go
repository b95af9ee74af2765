// Package biometric abstracts the device's biometric check used to confirm
// attendance.
package biometric

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompt is what the user sees while the sensor is active.
type Prompt struct {
	Message     string
	CancelLabel string
}

type Authenticator interface {
	// Available reports whether hardware exists and is enrolled.
	Available(ctx context.Context) (bool, error)
	// Authenticate reports whether the user passed the check.
	Authenticate(ctx context.Context, prompt Prompt) (bool, error)
}

// Static answers with fixed results. Used in tests and with --no-biometric.
type Static struct {
	Enrolled bool
	Pass     bool
	Err      error
}

func (s Static) Available(ctx context.Context) (bool, error) {
	return s.Enrolled, nil
}

func (s Static) Authenticate(ctx context.Context, prompt Prompt) (bool, error) {
	return s.Pass, s.Err
}

// Terminal asks for confirmation on a terminal. Anything but y or yes
// counts as a cancel.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Available(ctx context.Context) (bool, error) {
	return true, nil
}

func (t *Terminal) Authenticate(ctx context.Context, prompt Prompt) (bool, error) {
	cancel := prompt.CancelLabel
	if cancel == "" {
		cancel = "Cancel"
	}
	if _, err := fmt.Fprintf(t.out, "%s [y/N, N = %s]: ", prompt.Message, cancel); err != nil {
		return false, err
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := t.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-ch:
		if r.err != nil && r.err != io.EOF {
			return false, r.err
		}
		answer := strings.ToLower(strings.TrimSpace(r.line))
		return answer == "y" || answer == "yes", nil
	}
}
