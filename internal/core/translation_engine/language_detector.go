package translation_engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
)

// DefaultSampleChars is how much of the document the detector sends.
const DefaultSampleChars = 400

var errEmptyResponse = errors.New("model returned an empty response")

var _ core.LanguageDetector = (*LLMDetector)(nil)

// LLMDetector asks the model to name the language of a text sample.
type LLMDetector struct {
	llm         core.LLMProvider
	sampleChars int
}

func NewLLMDetector(llm core.LLMProvider, sampleChars int) *LLMDetector {
	if sampleChars <= 0 {
		sampleChars = DefaultSampleChars
	}
	return &LLMDetector{llm: llm, sampleChars: sampleChars}
}

// Detect returns the model's answer trimmed and lowercased. It does not
// check the answer against the supported set.
func (d *LLMDetector) Detect(ctx context.Context, text string) (string, error) {
	out, err := d.llm.Generate(ctx, detectSystemPrompt(), detectUserPrompt(sample(text, d.sampleChars)))
	if err != nil {
		return "", err
	}
	out = strings.ToLower(strings.TrimSpace(cleanDetectorAnswer(out)))
	if out == "" {
		return "", errEmptyResponse
	}
	return out, nil
}

func detectSystemPrompt() string {
	names := make([]string, 0, len(language.All))
	for _, t := range language.All {
		names = append(names, t.DisplayName())
	}
	return fmt.Sprintf("Detect the language of the following text.\nRespond ONLY with one word: %s.", strings.Join(names, ", "))
}

func detectUserPrompt(s string) string {
	return "Text: " + s + "..."
}

// sample returns at most n runes of text.
func sample(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
