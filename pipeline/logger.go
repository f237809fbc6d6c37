package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

const bannerWidth = 79

// banner centres title in a line of underscores.
func banner(title string) string {
	title = " " + title + " "
	pad := bannerWidth - len(title)
	if pad <= 0 {
		return title
	}
	left := pad / 2
	return strings.Repeat("_", left) + title + strings.Repeat("_", pad-left)
}

// newRunLogger writes JSON records to the run log and human readable
// records to stderr. stderr only sees warnings unless verbose is set.
func newRunLogger(path string, stderr io.Writer, verbose bool, runID string) (*slog.Logger, *os.File, error) {
	logFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("opening run log: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	handler := slogmulti.Fanout(
		slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	)
	return slog.New(handler).With("RUN", runID), logFile, nil
}
