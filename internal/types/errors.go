package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrSummarizationFailed = errors.New("summarization failed")
	ErrEmptyNarration      = errors.New("narration produced no sentences")
	ErrAlignmentMismatch   = errors.New("alignment mismatch")
	ErrRenderingFailed     = errors.New("rendering failed")
	ErrProviderTimeout     = errors.New("provider timeout")
)

// RenderError describes a failed encoder invocation or render-time I/O error.
// ExitCode is -1 when the process never ran or was killed.
type RenderError struct {
	Op       string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrRenderingFailed, e.Op)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}
	return b.String()
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRenderingFailed }
