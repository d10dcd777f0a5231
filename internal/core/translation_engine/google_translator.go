package translation_engine

import (
	"context"
	"fmt"
	"html"

	translate "cloud.google.com/go/translate"
	xlang "golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
)

// googleBatchSize stays under the per-request input limit of the v2 API.
const googleBatchSize = 64

var _ core.Translator = (*GoogleTranslator)(nil)

type googleClient interface {
	Translate(ctx context.Context, inputs []string, target xlang.Tag, opts *translate.Options) ([]translate.Translation, error)
	Close() error
}

// GoogleTranslator sends text to the Cloud Translation API instead of an LLM.
// Chunks are sent in batches, in document order.
type GoogleTranslator struct {
	client         googleClient
	maxChunkTokens int
}

// NewGoogleTranslator uses credentialsFile when set and application default
// credentials otherwise.
func NewGoogleTranslator(ctx context.Context, credentialsFile string, maxChunkTokens int) (*GoogleTranslator, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google translate client: %w", err)
	}
	return &GoogleTranslator{client: client, maxChunkTokens: maxChunkTokens}, nil
}

func (t *GoogleTranslator) Close() error {
	return t.client.Close()
}

func (t *GoogleTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	targetTag, err := xlang.Parse(target.Code())
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", target, err)
	}
	sourceTag, err := xlang.Parse(source.Code())
	if err != nil {
		return "", fmt.Errorf("invalid source language %q: %w", source, err)
	}
	opts := &translate.Options{Source: sourceTag, Format: translate.Text}

	chunks := splitChunks(text, t.maxChunkTokens)
	out := make([]string, len(chunks))

	var batch []int
	send := func() error {
		if len(batch) == 0 {
			return nil
		}
		inputs := make([]string, len(batch))
		for i, pos := range batch {
			inputs[i] = chunks[pos].Text
		}
		res, err := t.client.Translate(ctx, inputs, targetTag, opts)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		if len(res) != len(inputs) {
			return fmt.Errorf("translation failed: got %d results for %d inputs", len(res), len(inputs))
		}
		for i, pos := range batch {
			out[pos] = html.UnescapeString(res[i].Text)
		}
		batch = batch[:0]
		return nil
	}

	for _, c := range chunks {
		if isBlank(c.Text) {
			out[c.Pos] = c.Text
			continue
		}
		batch = append(batch, c.Pos)
		if len(batch) == googleBatchSize {
			if err := send(); err != nil {
				return "", err
			}
		}
	}
	if err := send(); err != nil {
		return "", err
	}

	return joinChunks(chunks, out), nil
}
