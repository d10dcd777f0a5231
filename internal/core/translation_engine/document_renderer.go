package translation_engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/markdave123-py/doctranslate/internal/core"
)

var _ core.DocumentRenderer = (*PDFRenderer)(nil)

// ErrNeedsUnicodeFont is returned when text uses characters the core font
// cannot show and no TrueType font is configured.
var ErrNeedsUnicodeFont = errors.New("text needs a UTF-8 font, set PDF_FONT_PATH")

const (
	bodyFontSize   = 11.0
	bodyLineHeight = 5.0
	// 0.2in between paragraphs.
	paragraphSpacing = 5.08
)

// PDFRenderer lays translated text out as Letter-sized PDF pages, one
// paragraph per non-blank line. Without a font path it uses core Helvetica,
// which only covers cp1252. Text outside cp1252, Arabic for one, is refused
// rather than rendered as placeholder dots.
type PDFRenderer struct {
	fontPath string
	compress bool
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath, compress: true}
}

func (r *PDFRenderer) Ext() string { return "pdf" }

func (r *PDFRenderer) Render(text string, w io.Writer) error {
	paragraphs := Paragraphs(text)
	if r.fontPath == "" {
		for i, p := range paragraphs {
			if c, ok := firstUnencodable(p); ok {
				return fmt.Errorf("paragraph %d: character %q: %w", i+1, c, ErrNeedsUnicodeFont)
			}
		}
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreator("doctranslate", false)

	tr := func(s string) string { return s }
	if r.fontPath != "" {
		pdf.AddUTF8Font("body", "", r.fontPath)
		pdf.SetFont("body", "", bodyFontSize)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
		pdf.SetFont("Helvetica", "", bodyFontSize)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	pdf.AddPage()
	for _, p := range paragraphs {
		pdf.MultiCell(0, bodyLineHeight, tr(p), "", "L", false)
		pdf.Ln(paragraphSpacing)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// firstUnencodable returns the first rune of s missing from cp1252.
func firstUnencodable(s string) (rune, bool) {
	for _, c := range s {
		if _, ok := charmap.Windows1252.EncodeRune(c); !ok {
			return c, true
		}
	}
	return 0, false
}

// Paragraphs returns the trimmed non-blank lines of text in order.
func Paragraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
