package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/markdave123-py/doctranslate/internal/core/language"
)

// Format is the closed set of document formats the pipeline reads.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// FormatFromFilename returns the format implied by the file extension.
func FormatFromFilename(name string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch Format(ext) {
	case FormatPDF:
		return FormatPDF, true
	case FormatDOCX:
		return FormatDOCX, true
	}
	return "", false
}

// JobState is one step of the translation state machine.
type JobState string

const (
	StateReceived        JobState = "received"
	StateExtracted       JobState = "extracted"
	StateLanguageChecked JobState = "language_checked"
	StateTranslated      JobState = "translated"
	StateRendered        JobState = "rendered"
	StatePersisted       JobState = "persisted"
	StateFailed          JobState = "failed"
)

// SourceDocument is the uploaded input for one job.
type SourceDocument struct {
	Filename   string `json:"filename"`    // name as uploaded
	StoredName string `json:"stored_name"` // key in the upload store
	Format     Format `json:"format"`
}

// OutputDocument is the rendered translation.
type OutputDocument struct {
	JobID     string    `json:"job_id"`
	Filename  string    `json:"filename"` // <basename>_translated.pdf
	Key       string    `json:"key"`      // key in the output store
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// TranslationJob is the in-memory record of one pipeline run. It is never
// persisted and never shared between runs.
type TranslationJob struct {
	ID               string          `json:"id"`
	Source           SourceDocument  `json:"source"`
	SourceLanguage   language.Tag    `json:"source_language"`
	TargetLanguage   language.Tag    `json:"target_language"`
	ExtractedText    string          `json:"-"`
	DetectedLanguage string          `json:"detected_language"`
	TranslatedText   string          `json:"-"`
	Output           *OutputDocument `json:"output,omitempty"`
	State            JobState        `json:"state"`
	CreatedAt        time.Time       `json:"created_at"`
}
