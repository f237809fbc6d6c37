package pipeline

import (
	"errors"
	"fmt"
)

var ErrOutputExists = errors.New("output directory already exists (use --force to overwrite)")

// PreconditionError is returned before any stage runs, when an input file is
// missing or the output directory is already there.
type PreconditionError struct {
	Path string
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s: %v", e.Path, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// StageError reports the stage that failed. Artifacts written so far are
// left on disk.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FormatError is returned when the contig outcome log cannot be trusted.
type FormatError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Path
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", msg, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", msg, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
