package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/balancelog/internal/ingest"
)

// Process exit statuses.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // ingestion started and then failed
	ExitCommandError = 2 // bad flags or config, missing log or database
)

// Codes printed with every failure.
const (
	ErrCodeGeneric           = "E001"
	ErrCodeUsage             = "E002"
	ErrCodeConfig            = "E003"
	ErrCodeStorage           = "E004"
	ErrCodeSourceUnavailable = "E005"
	ErrCodeNotFound          = "E006"
	ErrCodeTimestamp         = "E007" // header timestamp did not parse
)

// ExitError carries the process exit status for a failed command. RunE
// functions return it and Execute turns it into the status and the printed
// error.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// ErrCode replaces the code errorCode would derive from Err.
	ErrCode string
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// WithCode sets the printed error code.
func (e *ExitError) WithCode(code string) *ExitError {
	e.ErrCode = code
	return e
}

// NewExitError returns an ExitError with no cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	e := NewExitError(code, message)
	e.Err = err
	return e
}

// GetExitCode is the exit status for err. Errors that are not ExitErrors
// count as ingestion failures.
func GetExitCode(err error) int {
	if exitErr := (*ExitError)(nil); errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode picks the reported error code for err.
func errorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ErrCode != "" {
		return exitErr.ErrCode
	}

	switch {
	case ingest.IsTimestampError(err):
		return ErrCodeTimestamp
	case errors.Is(err, ingest.ErrSourceUnavailable):
		return ErrCodeSourceUnavailable
	case errors.Is(err, ingest.ErrStorageInit):
		return ErrCodeStorage
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	}
	return ErrCodeGeneric
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; Writer when nil
	Verbose   bool
}

// CLIResponse is the JSON envelope around every result and error.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error member of CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON reports whether --format json was given.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes data. Text mode prints it with its default formatting.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a failure. Details are printed in text mode only with
// --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}

// VerboseLog writes a diagnostic line under --verbose. It never goes to
// Writer when ErrWriter is set, so JSON on stdout stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
	}
}

// GetErrWriter is where diagnostics go.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter == nil {
		return f.Writer
	}
	return f.ErrWriter
}

// Printer returns a printer that groups digits in counters ("12,345").
func (f *OutputFormatter) Printer() *message.Printer {
	return message.NewPrinter(language.English)
}
