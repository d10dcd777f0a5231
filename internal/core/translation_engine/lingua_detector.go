package translation_engine

import (
	"context"
	"errors"
	"strings"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/markdave123-py/doctranslate/internal/core"
)

var _ core.LanguageDetector = (*LinguaDetector)(nil)

// LinguaDetector classifies text locally with lingua-go. It knows every
// supported language except Kinyarwanda, which lingua does not model.
// Building it loads language models; construct one and share it.
type LinguaDetector struct {
	detector    lingua.LanguageDetector
	sampleChars int
}

func NewLinguaDetector(sampleChars int) *LinguaDetector {
	if sampleChars <= 0 {
		sampleChars = DefaultSampleChars
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.French, lingua.Arabic, lingua.Swahili).
		Build()
	return &LinguaDetector{detector: detector, sampleChars: sampleChars}
}

func (d *LinguaDetector) Detect(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s := strings.TrimSpace(sample(text, d.sampleChars))
	if s == "" {
		return "", errors.New("no text to classify")
	}
	lang, ok := d.detector.DetectLanguageOf(s)
	if !ok {
		return "", errors.New("language could not be determined")
	}
	return strings.ToLower(lang.String()), nil
}
