package translation_engine

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// showTextRe matches one text-showing operator in an uncompressed stream.
var showTextRe = regexp.MustCompile(`\)\s*Tj`)

func renderUncompressed(t *testing.T, text string) string {
	t.Helper()
	r := NewPDFRenderer("")
	r.compress = false

	var buf bytes.Buffer
	require.NoError(t, r.Render(text, &buf))
	return buf.String()
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"Para one", "Para two"}, Paragraphs("Para one\n\n\nPara two"))
	assert.Equal(t, []string{"a", "b"}, Paragraphs("  a  \r\n \t \r\nb\n"))
	assert.Empty(t, Paragraphs("\n \n\t"))
}

func TestParagraphs_Idempotent(t *testing.T) {
	text := "Title\n\nFirst paragraph.\n   \nSecond paragraph."
	first := Paragraphs(text)
	assert.Equal(t, first, Paragraphs(text))
	assert.Equal(t, first, Paragraphs(strings.Join(first, "\n")))
}

func TestPDFRenderer_TwoParagraphs(t *testing.T) {
	out := renderUncompressed(t, "Para one\n\n\nPara two")

	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Len(t, showTextRe.FindAllString(out, -1), 2)
	assert.Regexp(t, `\(Para one\)\s*Tj`, out)
	assert.Regexp(t, `\(Para two\)\s*Tj`, out)
	assert.Less(t, strings.Index(out, "(Para one)"), strings.Index(out, "(Para two)"))
}

func TestPDFRenderer_LetterSize(t *testing.T) {
	out := renderUncompressed(t, "Hello world")
	assert.Contains(t, out, "612.00 792.00")
}

func TestPDFRenderer_EmptyTextStillProducesDocument(t *testing.T) {
	out := renderUncompressed(t, "\n\n")
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Empty(t, showTextRe.FindAllString(out, -1))

	// The same renderer does emit text for one line, so the count above means
	// something.
	assert.Len(t, showTextRe.FindAllString(renderUncompressed(t, "x"), -1), 1)
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	r := NewPDFRenderer("/nonexistent/font.ttf")
	var buf bytes.Buffer
	assert.Error(t, r.Render("Hello", &buf))
}

func TestPDFRenderer_Ext(t *testing.T) {
	assert.Equal(t, "pdf", NewPDFRenderer("").Ext())
}

func TestPDFRenderer_Latin1AccentsWithCoreFont(t *testing.T) {
	out := renderUncompressed(t, "Café à Genève")
	assert.Len(t, showTextRe.FindAllString(out, -1), 1)
}

func TestPDFRenderer_ArabicWithoutFontFails(t *testing.T) {
	r := NewPDFRenderer("")
	var buf bytes.Buffer

	err := r.Render("Hello\nمرحبا بالعالم", &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNeedsUnicodeFont)
	assert.Contains(t, err.Error(), "paragraph 2")
	assert.Zero(t, buf.Len(), "nothing is written on refusal")
}
