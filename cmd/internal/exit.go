package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/saylorsolutions/zipcrack/pkg/search"
)

// Process exit codes.
const (
	ExitFound     = 0
	ExitError     = 1
	ExitExhausted = 2
	ExitCancelled = 3
)

// ExitCode maps the outcome of a search to a process exit code.
func ExitCode(res *search.Result) int {
	if res == nil {
		return ExitError
	}
	switch res.State {
	case search.Found:
		return ExitFound
	case search.Exhausted:
		return ExitExhausted
	case search.Cancelled:
		return ExitCancelled
	default:
		return ExitError
	}
}

// Echo will emit the given message to w without any logging formatting.
func Echo(w io.Writer, msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprintf(w, msg, args...)
}
