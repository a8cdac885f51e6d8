package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned when the upload is neither PDF nor DOCX.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNoTextFound is returned when a document parsed fine but had no
	// selectable text, e.g. a scanned PDF.
	ErrNoTextFound = errors.New("no text found in document")

	// ErrMissingAPIKey is wrapped in a ModelError when no Gemini key is configured.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")
)

// ExtractionError represents a document-specific parse failure
type ExtractionError struct {
	Format DocumentFormat
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s", e.Format)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ModelError represents a configuration or provider failure calling the model
type ModelError struct {
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("model call failed: %s", e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// ErrorKind maps a pipeline error to the short name recorded on parse runs.
func ErrorKind(err error) string {
	var extractionErr *ExtractionError
	var modelErr *ModelError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrNoTextFound):
		return "no_text_found"
	case errors.As(err, &extractionErr):
		return "extraction_error"
	case errors.As(err, &modelErr):
		return "model_error"
	default:
		return "internal_error"
	}
}
