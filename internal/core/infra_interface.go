package core

import (
	"context"
	"errors"
	"io"

	"github.com/markdave123-py/doctranslate/internal/core/language"
)

// ErrNotFound is returned by FileStore.Open for a missing name.
var ErrNotFound = errors.New("file not found")

// FileStore is a flat name -> bytes store for uploads and rendered outputs.
// The local directory and S3 implementations live in object-client.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// TranslationMemory caches finished translations so an identical document
// is not sent to the model twice.
type TranslationMemory interface {
	Lookup(ctx context.Context, text string, source, target language.Tag) (string, bool, error)
	Save(ctx context.Context, text string, source, target language.Tag, translated string) error
	Close() error
}
