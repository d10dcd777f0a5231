package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/models"
)

// Failure kinds. Every error returned by the pipeline matches exactly one of
// these with errors.Is.
var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrUnreadableDocument     = errors.New("unreadable document")
	ErrDetectionUnavailable   = errors.New("language detection unavailable")
	ErrLanguageMismatch       = language.ErrMismatch
	ErrTranslationUnavailable = errors.New("translation unavailable")
	ErrRenderError            = errors.New("render failed")
	ErrStorageUnavailable     = errors.New("storage unavailable")
)

// PipelineError is a stage-aware failure of one job.
type PipelineError struct {
	JobID string
	Stage models.JobState // last state reached before the failure
	Kind  error
	Err   error
}

func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *PipelineError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{e.Kind, e.Err}
}

// NewInvalidRequest builds an admission failure.
func NewInvalidRequest(format string, args ...any) error {
	return &PipelineError{Stage: models.StateReceived, Kind: ErrInvalidRequest, Err: fmt.Errorf(format, args...)}
}

// UserMessage renders err as a short string safe to show to an end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var mismatch *language.MismatchError
	if errors.As(err, &mismatch) {
		return fmt.Sprintf("Language mismatch. Expected %s, got %s.", mismatch.Declared, mismatch.Detected)
	}

	var pe *PipelineError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		if errors.As(err, &pe) && pe.Err != nil {
			return "Invalid request: " + pe.Err.Error() + "."
		}
		return "Invalid request."
	case errors.Is(err, ErrUnreadableDocument):
		return "The document could not be read."
	case errors.Is(err, ErrDetectionUnavailable):
		if errors.Is(err, context.DeadlineExceeded) {
			return "Language detection timed out."
		}
		return "Language detection is currently unavailable."
	case errors.Is(err, ErrTranslationUnavailable):
		if errors.Is(err, context.DeadlineExceeded) {
			return "Translation timed out."
		}
		return "Translation is currently unavailable."
	case errors.Is(err, ErrRenderError):
		return "The translated document could not be produced."
	case errors.Is(err, ErrStorageUnavailable):
		return "The document could not be stored."
	}
	return "Unexpected error."
}
