package translation_engine

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMDetector_NormalizesAnswer(t *testing.T) {
	llm := staticLLM("  French\n")
	d := NewLLMDetector(llm, 0)

	got, err := d.Detect(context.Background(), "Bonjour tout le monde")
	require.NoError(t, err)
	assert.Equal(t, "french", got)

	require.Len(t, llm.systems, 1)
	assert.Contains(t, llm.systems[0], "English, French, Arabic, Swahili, Kinyarwanda")
	assert.Equal(t, "Text: Bonjour tout le monde...", llm.users[0])
}

func TestLLMDetector_SendsAtMost400Runes(t *testing.T) {
	llm := staticLLM("arabic")
	d := NewLLMDetector(llm, 0)

	text := strings.Repeat("ب", 1000)
	_, err := d.Detect(context.Background(), text)
	require.NoError(t, err)

	sent := strings.TrimSuffix(strings.TrimPrefix(llm.users[0], "Text: "), "...")
	assert.Equal(t, DefaultSampleChars, utf8.RuneCountInString(sent))
	assert.True(t, utf8.ValidString(sent))
}

func TestLLMDetector_DoesNotEnforceSupportedSet(t *testing.T) {
	got, err := NewLLMDetector(staticLLM("Klingon"), 0).Detect(context.Background(), "nuqneH")
	require.NoError(t, err)
	assert.Equal(t, "klingon", got)
}

func TestLLMDetector_Failures(t *testing.T) {
	_, err := NewLLMDetector(staticLLM("   "), 0).Detect(context.Background(), "text")
	assert.ErrorIs(t, err, errEmptyResponse)

	failing := &fakeLLM{fn: func(context.Context, string, string) (string, error) { return "", errBoom }}
	_, err = NewLLMDetector(failing, 0).Detect(context.Background(), "text")
	assert.ErrorIs(t, err, errBoom)
}

func TestSample(t *testing.T) {
	assert.Equal(t, "abc", sample("abc", 5))
	assert.Equal(t, "ab", sample("abc", 2))
	assert.Equal(t, "éé", sample("ééé", 2))
}
