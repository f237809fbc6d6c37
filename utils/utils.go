package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// maxErrOutput caps how much captured tool output is attached to an error.
const maxErrOutput = 2000

// CommandError is returned when an external command exits unsuccessfully.
type CommandError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Cmd, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error { return e.Err }

func run(cmd *exec.Cmd, verbose bool) error {
	var buf bytes.Buffer
	if verbose {
		fmt.Println(cmd.String())
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	if err := cmd.Run(); err != nil {
		out := buf.String()
		if len(out) > maxErrOutput {
			out = "..." + out[len(out)-maxErrOutput:]
		}
		return &CommandError{Cmd: cmd.String(), Output: strings.TrimSpace(out), Err: err}
	}
	return nil
}

// RunCmd runs name with args and waits for it. Output is echoed when verbose
// and attached to the returned error otherwise.
func RunCmd(ctx context.Context, verbose bool, name string, args ...string) error {
	return run(exec.CommandContext(ctx, name, args...), verbose)
}

// RunBashCmd runs cmdStr with bash. pipefail is set so a failure anywhere in
// a pipeline fails the command.
func RunBashCmd(ctx context.Context, cmdStr string, verbose bool) error {
	return run(exec.CommandContext(ctx, "bash", "-c", "set -o pipefail; "+cmdStr), verbose)
}

// ShellQuote quotes s for use as a single bash word.
func ShellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,+@%", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
