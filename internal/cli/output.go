package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// Exit codes.
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitUsageError = 2
)

// Error codes used in JSON output.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeConfig     = "E002"
	ErrCodeValidation = "E003"
	ErrCodeTransform  = "E004"
	ErrCodeLookup     = "E005"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err, ExitFailure when err is not an
// ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode classifies err for JSON output.
func errorCode(err error) string {
	var notFound *mmerrors.TransformerNotFoundError
	switch {
	case errors.As(err, &notFound):
		return ErrCodeTransform
	case mmerrors.IsValidationError(err):
		return ErrCodeValidation
	case mmerrors.IsConfigError(err):
		return ErrCodeConfig
	default:
		return ErrCodeGeneric
	}
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError describes a failure in JSON output.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON reports whether output is JSON.
func (f *OutputFormatter) JSON() bool { return f.Format == "json" }

// Success writes data in an "ok" envelope. Text output is left to the caller.
func (f *OutputFormatter) Success(data interface{}) error {
	return f.encode(CLIResponse{Status: "ok", Data: data})
}

// Fail reports err and returns it as an ExitError with code.
func (f *OutputFormatter) Fail(code int, message string, err error) error {
	if f.JSON() {
		_ = f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: errorCode(err), Message: fmt.Sprintf("%s: %v", message, err)},
		})
	} else {
		fmt.Fprintf(f.errWriter(), "Error [%s]: %s: %v\n", errorCode(err), message, err)
	}
	return WrapExitError(code, message, err)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// formatValues renders lookup results on one line.
func formatValues(values []any) string {
	if len(values) == 0 {
		return "(none)"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		return "[" + formatValues(t) + "]"
	case nil:
		return "nil"
	default:
		return matchmap.Text(v)
	}
}
