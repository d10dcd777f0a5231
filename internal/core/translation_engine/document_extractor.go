package translation_engine

import (
	"context"
	"fmt"
	"io"
	"strings"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/models"
)

var _ core.TextExtractor = (*DocconvExtractor)(nil)

type convertFunc func(io.Reader) (string, map[string]string, error)

// DocconvExtractor implements core.TextExtractor using sajari/docconv.
// PDF conversion shells out to poppler's pdftotext and pdfinfo. docconv runs
// pdftotext with -nopgbrk, so pages arrive already joined, each ending in a
// newline, and a page without a text layer contributes nothing.
type DocconvExtractor struct {
	convertPDF  convertFunc
	convertDocx convertFunc
}

func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{
		convertPDF:  docconv.ConvertPDF,
		convertDocx: docconv.ConvertDocx,
	}
}

// ExtractText converts the document and returns its text trimmed of
// surrounding whitespace. Pages or paragraphs without text contribute nothing
// rather than errors.
func (e *DocconvExtractor) ExtractText(ctx context.Context, r io.Reader, format models.Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch format {
	case models.FormatPDF:
		body, _, err := e.convertPDF(r)
		if err != nil {
			return "", fmt.Errorf("docconv: pdf conversion failed: %w", err)
		}
		return strings.TrimSpace(normalizeNewlines(body)), nil

	case models.FormatDOCX:
		body, _, err := e.convertDocx(r)
		if err != nil {
			return "", fmt.Errorf("docconv: docx conversion failed: %w", err)
		}
		return strings.TrimSpace(normalizeNewlines(body)), nil
	}

	return "", fmt.Errorf("unsupported format %q", format)
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
