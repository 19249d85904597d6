package domain

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat converts a user supplied name into an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputFormatText:
		return OutputFormatText, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatYAML, "yml":
		return OutputFormatYAML, nil
	case OutputFormatCSV:
		return OutputFormatCSV, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// Extension returns the file extension used for reports in this format
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatJSON:
		return "json"
	case OutputFormatYAML:
		return "yaml"
	case OutputFormatCSV:
		return "csv"
	default:
		return "txt"
	}
}

// ReportWriter abstracts writing reports to a destination (file or writer).
//
// Implementations live in the service layer.
type ReportWriter interface {
	// Write writes formatted content using the provided writeFunc.
	// - If outputPath is non-empty, implementations should create/truncate the file
	//   at that path and pass the file as the writer to writeFunc.
	// - If outputPath is empty, implementations should pass the provided writer to writeFunc.
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// ProgressManager manages progress tracking for long running loads
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Describe changes the label shown next to the bar
	Describe(description string)

	// Start starts the progress bar
	Start()

	// Complete marks the progress as completed
	Complete(success bool)

	// Update updates the progress
	Update(processed, total int)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	ErrorCategoryInput      ErrorCategory = "Input Error"
	ErrorCategoryConfig     ErrorCategory = "Configuration Error"
	ErrorCategoryProcessing ErrorCategory = "Processing Error"
	ErrorCategoryOutput     ErrorCategory = "Output Error"
	ErrorCategoryData       ErrorCategory = "Data Error"
	ErrorCategoryUnknown    ErrorCategory = "Unknown Error"
)

// CategorizedError represents an error with category information
type CategorizedError struct {
	Category ErrorCategory
	Message  string
	Original error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Original != nil {
		return e.Original.Error()
	}
	return e.Message
}

func (e *CategorizedError) Unwrap() error {
	return e.Original
}

// CategorizeError maps a domain error code onto a user facing category
func CategorizeError(err error) *CategorizedError {
	if err == nil {
		return nil
	}
	category := ErrorCategoryUnknown
	switch {
	case HasCode(err, ErrCodeInvalidInput), HasCode(err, ErrCodeFileNotFound):
		category = ErrorCategoryInput
	case HasCode(err, ErrCodeConfigError):
		category = ErrorCategoryConfig
	case HasCode(err, ErrCodeOutputError), HasCode(err, ErrCodeUnsupportedFormat):
		category = ErrorCategoryOutput
	case HasCode(err, ErrCodeParseError), HasCode(err, ErrCodeConsistency), HasCode(err, ErrCodeInvariant):
		category = ErrorCategoryData
	case HasCode(err, ErrCodeAnalysisError):
		category = ErrorCategoryProcessing
	}
	return &CategorizedError{
		Category: category,
		Message:  fmt.Sprintf("%s: %v", category, err),
		Original: err,
	}
}
