package translation_engine

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/doctranslate/internal/core/language"
)

func upperLLM() *fakeLLM {
	return &fakeLLM{fn: func(_ context.Context, _, user string) (string, error) {
		return strings.ToUpper(user), nil
	}}
}

func TestLLMTranslator_SingleRequest(t *testing.T) {
	llm := staticLLM("Here is the translation: Hello world\n")
	tr := NewLLMTranslator(llm, DefaultMaxChunkTokens, DefaultConcurrency)

	got, err := tr.Translate(context.Background(), "Bonjour le monde", language.French, language.English)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)

	require.Equal(t, 1, llm.calls())
	assert.Equal(t, "Bonjour le monde", llm.users[0])
	assert.Contains(t, llm.systems[0], "from French to English")
	assert.Contains(t, llm.systems[0], "Maintain accuracy, structure, and meaning")
}

func TestLLMTranslator_KeepsLabelsAndQuotesFromTheDocument(t *testing.T) {
	tr := NewLLMTranslator(staticLLM("Translation: a short guide\nChapter one"), 0, 1)
	got, err := tr.Translate(context.Background(), "Traduction : un petit guide\nChapitre un", language.French, language.English)
	require.NoError(t, err)
	assert.Equal(t, "Translation: a short guide\nChapter one", got)

	tr = NewLLMTranslator(staticLLM(`"To be or not to be"`), 0, 1)
	got, err = tr.Translate(context.Background(), `"Être ou ne pas être"`, language.French, language.English)
	require.NoError(t, err)
	assert.Equal(t, `"To be or not to be"`, got)
}

func TestLLMTranslator_ChunksKeepOrderAndSeparators(t *testing.T) {
	llm := upperLLM()
	tr := NewLLMTranslator(llm, 3, 3)

	text := "Bonjour\nle monde\nau revoir"
	got, err := tr.Translate(context.Background(), text, language.French, language.English)
	require.NoError(t, err)
	assert.Equal(t, "BONJOUR\nLE MONDE\nAU REVOIR", got)
	assert.Equal(t, 3, llm.calls())
}

func TestLLMTranslator_BoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	llm := &fakeLLM{fn: func(_ context.Context, _, user string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return user, nil
	}}
	tr := NewLLMTranslator(llm, 2, 2)

	text := strings.Repeat("abcdefg\n", 20)
	got, err := tr.Translate(context.Background(), text, language.French, language.English)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(text), got)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, 20, llm.calls())
}

func TestLLMTranslator_OneChunkFailureFailsAll(t *testing.T) {
	llm := &fakeLLM{fn: func(_ context.Context, _, user string) (string, error) {
		if strings.Contains(user, "monde") {
			return "", errBoom
		}
		return user, nil
	}}
	tr := NewLLMTranslator(llm, 3, 1)

	_, err := tr.Translate(context.Background(), "Bonjour\nle monde\nau revoir", language.French, language.English)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "chunk 2/3")
}

func TestLLMTranslator_EmptyOutput(t *testing.T) {
	tr := NewLLMTranslator(staticLLM("<think>nothing to say</think>"), 0, 1)

	_, err := tr.Translate(context.Background(), "Bonjour", language.French, language.English)
	assert.ErrorIs(t, err, errEmptyResponse)
}
