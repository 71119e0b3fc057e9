package skopeo

import (
	"fmt"
	"strings"
)

// ToolError is returned when a skopeo invocation exits non-zero.
// The exit status and captured output are preserved so the caller
// can propagate them.
type ToolError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("skopeo %s exited %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// MalformedDigestError is returned when skopeo's digest output does not
// parse as algorithm:hex.
type MalformedDigestError struct {
	Output string
	Err    error
}

func (e *MalformedDigestError) Error() string {
	return fmt.Sprintf("malformed digest output %q: %v", e.Output, e.Err)
}

func (e *MalformedDigestError) Unwrap() error {
	return e.Err
}
