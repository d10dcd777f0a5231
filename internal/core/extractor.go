package core

import (
	"context"
	"io"

	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/models"
)

// TextExtractor turns a source document into plain text.
type TextExtractor interface {
	// ExtractText reads the whole document from r and returns its text,
	// newline-joined and trimmed. An empty result is not an error.
	ExtractText(ctx context.Context, r io.Reader, format models.Format) (string, error)
}

// LanguageDetector infers the language of a text sample. The result is a
// lowercase free-form token and is not guaranteed to be a supported tag.
type LanguageDetector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator converts text between two supported languages.
type Translator interface {
	Translate(ctx context.Context, text string, source, target language.Tag) (string, error)
}

// DocumentRenderer serializes translated text into an output document.
type DocumentRenderer interface {
	Render(text string, w io.Writer) error
	// Ext is the file extension of rendered documents, without the dot.
	Ext() string
}
