package translation_engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	translate "cloud.google.com/go/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xlang "golang.org/x/text/language"

	"github.com/markdave123-py/doctranslate/internal/core/language"
)

type fakeGoogleClient struct {
	mu      sync.Mutex
	batches [][]string
	target  xlang.Tag
	opts    *translate.Options
	err     error
}

func (f *fakeGoogleClient) Translate(_ context.Context, inputs []string, target xlang.Tag, opts *translate.Options) ([]translate.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), inputs...))
	f.target, f.opts = target, opts
	if f.err != nil {
		return nil, f.err
	}
	out := make([]translate.Translation, len(inputs))
	for i, in := range inputs {
		out[i] = translate.Translation{Text: strings.ToUpper(in) + " &amp; co"}
	}
	return out, nil
}

func (f *fakeGoogleClient) Close() error { return nil }

func TestGoogleTranslator_SingleRequest(t *testing.T) {
	client := &fakeGoogleClient{}
	tr := &GoogleTranslator{client: client}

	got, err := tr.Translate(context.Background(), "bonjour", language.French, language.English)
	require.NoError(t, err)

	assert.Equal(t, "BONJOUR & co", got)
	require.Len(t, client.batches, 1)
	assert.Equal(t, "en", client.target.String())
	assert.Equal(t, "fr", client.opts.Source.String())
	assert.Equal(t, translate.Text, client.opts.Format)
}

func TestGoogleTranslator_ChunksKeepOrder(t *testing.T) {
	client := &fakeGoogleClient{}
	tr := &GoogleTranslator{client: client, maxChunkTokens: 1}

	got, err := tr.Translate(context.Background(), "aaaa\nbbbb\ncccc", language.French, language.Swahili)
	require.NoError(t, err)

	assert.Equal(t, "AAAA & co\nBBBB & co\nCCCC & co", got)
	require.Len(t, client.batches, 1)
	assert.Equal(t, []string{"aaaa", "bbbb", "cccc"}, client.batches[0])
	assert.Equal(t, "sw", client.target.String())
}

func TestGoogleTranslator_Error(t *testing.T) {
	tr := &GoogleTranslator{client: &fakeGoogleClient{err: errBoom}}

	_, err := tr.Translate(context.Background(), "bonjour", language.French, language.English)
	assert.ErrorIs(t, err, errBoom)
}
