package errors

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
)

// ResponseBodyCarrier is implemented by transport errors that captured the
// body of a failed response from the build service.
type ResponseBodyCarrier interface {
	ResponseBody() []byte
}

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch classified.Category() {
	case CategoryValidation:
		return 2
	case CategoryAuth:
		return 5
	case CategoryConfig:
		return 7
	case CategoryNetwork, CategoryRemote:
		return 8
	case CategoryNotFound:
		return 9
	case CategoryInternal:
		return 10
	case CategoryBuild, CategoryFileSystem:
		return 11
	default:
		return 1
	}
}

// FormatError formats an error for display. Verbose mode adds the category and context.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if !a.verbose || len(classified.Context()) == 0 {
		return fmt.Sprintf("Error: %v", err)
	}
	return fmt.Sprintf("Error [%s]: %v %v", classified.Category(), err, map[string]any(classified.Context()))
}

// ResponseBody returns the indented JSON body of the first failed response in the
// chain, or the raw body when it is not JSON. Empty when no body was captured.
func ResponseBody(err error) string {
	var carrier ResponseBodyCarrier
	if !stderrors.As(err, &carrier) {
		return ""
	}
	body := carrier.ResponseBody()
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var out bytes.Buffer
	if json.Indent(&out, body, "", "  ") != nil {
		return string(body)
	}
	return out.String()
}

// Report writes the user-facing message (and any response body) to w, logs the
// error, and returns the exit code the process should use.
func (a *CLIErrorAdapter) Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	a.logError(err)
	if body := ResponseBody(err); body != "" {
		_, _ = fmt.Fprintln(w, body)
	}
	_, _ = fmt.Fprintln(w, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Debug("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{
		slog.String("category", string(classified.Category())),
		slog.String("severity", string(classified.Severity())),
	}
	if classified.CanRetry() {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, classified.Message(), attrs...)
}
