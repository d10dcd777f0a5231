package translation_engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
)

const (
	DefaultMaxChunkTokens = 3000
	DefaultConcurrency    = 4
)

var _ core.Translator = (*LLMTranslator)(nil)

// LLMTranslator sends text to the model chunk by chunk and stitches the
// answers back together in document order.
//
// maxChunkTokens: approximate token limit per request, 0 sends the whole text.
// concurrency:    upper bound on requests in flight for one document.
type LLMTranslator struct {
	llm            core.LLMProvider
	maxChunkTokens int
	concurrency    int
}

func NewLLMTranslator(llm core.LLMProvider, maxChunkTokens, concurrency int) *LLMTranslator {
	if maxChunkTokens < 0 {
		maxChunkTokens = 0
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &LLMTranslator{llm: llm, maxChunkTokens: maxChunkTokens, concurrency: concurrency}
}

// Translate does not compare source and target; admission already did.
// A failure in any chunk fails the whole call.
func (t *LLMTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	system := translateSystemPrompt(source, target)

	chunks := splitChunks(text, t.maxChunkTokens)
	if len(chunks) == 1 {
		return t.translateOne(ctx, system, chunks[0].Text)
	}

	out := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for _, c := range chunks {
		if isBlank(c.Text) {
			out[c.Pos] = c.Text
			continue
		}
		g.Go(func() error {
			translated, err := t.translateOne(gctx, system, c.Text)
			if err != nil {
				return fmt.Errorf("chunk %d/%d: %w", c.Pos+1, len(chunks), err)
			}
			out[c.Pos] = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return joinChunks(chunks, out), nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// joinChunks puts translated pieces back together with the separators of the
// source text.
func joinChunks(chunks []chunk, out []string) string {
	var b strings.Builder
	for i, c := range chunks {
		b.WriteString(out[i])
		b.WriteString(c.Sep)
	}
	return strings.TrimSpace(b.String())
}

func (t *LLMTranslator) translateOne(ctx context.Context, system, text string) (string, error) {
	resp, err := t.llm.Generate(ctx, system, text)
	if err != nil {
		return "", err
	}
	resp = cleanTranslation(resp, text)
	if resp == "" {
		return "", errEmptyResponse
	}
	return resp, nil
}

func translateSystemPrompt(source, target language.Tag) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Maintain accuracy, structure, and meaning. Only respond with the translation.",
		source.DisplayName(), target.DisplayName(),
	)
}
