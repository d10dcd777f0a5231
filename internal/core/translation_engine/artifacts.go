package translation_engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/models"
)

const (
	translatedSuffix = "_translated"
	fallbackBaseName = "document"
)

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ArtifactManager owns the files of a job: the uploaded input, which lives
// only for the duration of a run, and the rendered output, which outlives it.
// Every key is scoped by job ID so concurrent uploads of the same filename
// never collide.
type ArtifactManager struct {
	uploads core.FileStore
	outputs core.FileStore
	now     func() time.Time
}

func NewArtifactManager(uploads, outputs core.FileStore) *ArtifactManager {
	return &ArtifactManager{uploads: uploads, outputs: outputs, now: time.Now}
}

// SaveInput stores the upload under <jobID>/<secure filename>.
func (m *ArtifactManager) SaveInput(ctx context.Context, jobID, filename string, format models.Format, r io.Reader) (models.SourceDocument, error) {
	doc := models.SourceDocument{
		Filename:   filename,
		StoredName: jobID + "/" + SecureFilename(filename),
		Format:     format,
	}
	if err := m.uploads.Save(ctx, doc.StoredName, r); err != nil {
		return models.SourceDocument{}, fmt.Errorf("save input %s: %w", doc.StoredName, err)
	}
	return doc, nil
}

func (m *ArtifactManager) OpenInput(ctx context.Context, doc models.SourceDocument) (io.ReadCloser, error) {
	return m.uploads.Open(ctx, doc.StoredName)
}

// DeleteInput removes the stored upload. A missing file is not an error.
func (m *ArtifactManager) DeleteInput(ctx context.Context, doc models.SourceDocument) error {
	return m.uploads.Delete(ctx, doc.StoredName)
}

// SaveOutput persists a fully rendered document in one write, so a reader
// never sees a partial file.
func (m *ArtifactManager) SaveOutput(ctx context.Context, jobID string, src models.SourceDocument, ext string, data []byte) (*models.OutputDocument, error) {
	out := &models.OutputDocument{
		JobID:    jobID,
		Filename: OutputFilename(src.Filename, ext),
		Size:     int64(len(data)),
	}
	out.Key = jobID + "/" + out.Filename
	if err := m.outputs.Save(ctx, out.Key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("save output %s: %w", out.Key, err)
	}
	out.CreatedAt = m.now().UTC()
	return out, nil
}

// OpenOutput returns the output of a job. Names that are not already in
// secure form are reported as not found.
func (m *ArtifactManager) OpenOutput(ctx context.Context, jobID, filename string) (io.ReadCloser, error) {
	if !isSecureSegment(jobID) || !isSecureSegment(filename) {
		return nil, core.ErrNotFound
	}
	return m.outputs.Open(ctx, jobID+"/"+filename)
}

// OutputFilename derives <basename>_translated.<ext> from the uploaded name.
// Only the last extension is dropped: "report.v2.pdf" becomes
// "report.v2_translated.pdf".
func OutputFilename(uploaded, ext string) string {
	name := SecureFilename(uploaded)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + translatedSuffix + "." + strings.TrimPrefix(ext, ".")
}

// SecureFilename reduces name to a single ASCII path segment made of
// letters, digits, '_', '-' and '.'. The extension is kept, lowercased, even
// when nothing of the base name survives.
func SecureFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && !isSecureSegment(ext[1:]) {
		ext = ""
	}
	base := name[:len(name)-len(ext)]

	base = asciiFold(base)
	base = strings.NewReplacer("/", " ", "\\", " ").Replace(base)
	base = strings.Join(strings.Fields(base), "_")
	base = unsafeFilenameRe.ReplaceAllString(base, "")
	base = strings.Trim(base, "._")
	if base == "" {
		base = fallbackBaseName
	}
	return base + ext
}

// asciiFold decomposes name and drops every non-ASCII rune, so "Résumé"
// becomes "Resume".
func asciiFold(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSecureSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !unsafeFilenameRe.MatchString(s)
}
