package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/doctranslate/internal/core/language"
)

// isolate runs the test in an empty directory with every known key unset,
// so neither a .env file nor the host environment leaks in.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for k := range defaults {
		t.Setenv(k, "")
	}
	for _, k := range []string{"DETECT_MODEL", "TRANSLATE_MODEL", "OPENAI_API_KEY", "GEMINI_API_KEY", "TRANSLATION_CACHE_DSN", "PDF_FONT_PATH", "LANGUAGE_ALIASES", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.DetectModel)
	assert.Equal(t, "gpt-4o", cfg.TranslateModel)
	assert.Equal(t, "llm", cfg.DetectorBackend)
	assert.Equal(t, "llm", cfg.TranslatorBackend)
	assert.Equal(t, 30*time.Second, cfg.DetectTimeout)
	assert.Equal(t, 5*time.Minute, cfg.TranslateTimeout)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 3000, cfg.MaxChunkTokens)
	assert.Equal(t, 4, cfg.TranslateConcurrency)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.LanguageAliases)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("DETECTOR_BACKEND", "lingua")
	t.Setenv("TRANSLATOR_BACKEND", "google")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/gcp/key.json")
	t.Setenv("DETECT_TIMEOUT", "5s")
	t.Setenv("MAX_CHUNK_TOKENS", "0")
	t.Setenv("LLM_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("BUCKET_NAME", "docs")
	t.Setenv("LANGUAGE_ALIASES", "french=francais|fra; swahili=kiswahili")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.DetectModel)
	assert.Equal(t, "lingua", cfg.DetectorBackend)
	assert.Equal(t, "google", cfg.TranslatorBackend)
	assert.Equal(t, "/etc/gcp/key.json", cfg.GoogleCredentialsFile)
	assert.Equal(t, 5*time.Second, cfg.DetectTimeout)
	assert.Equal(t, 0, cfg.MaxChunkTokens)
	assert.InDelta(t, 2.5, cfg.RequestsPerSec, 1e-9)
	assert.Equal(t, "s3", cfg.StorageBackend)
	assert.Equal(t, map[language.Tag][]string{
		language.French:  {"francais", "fra"},
		language.Swahili: {"kiswahili"},
	}, cfg.LanguageAliases)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("DETECT_TIMEOUT", "soon")
	t.Setenv("TRANSLATE_CONCURRENCY", "0")
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("STORAGE_BACKEND", "ftp")
	t.Setenv("TRANSLATOR_BACKEND", "deepl")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DETECT_TIMEOUT")
	assert.ErrorContains(t, err, "TRANSLATE_CONCURRENCY")
	assert.ErrorContains(t, err, "LLM_PROVIDER")
	assert.ErrorContains(t, err, "STORAGE_BACKEND")
	assert.ErrorContains(t, err, "TRANSLATOR_BACKEND")
}

func TestParseLanguageAliases(t *testing.T) {
	got, err := ParseLanguageAliases("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseLanguageAliases("klingon=tlh")
	assert.Error(t, err)

	_, err = ParseLanguageAliases("french")
	assert.Error(t, err)
}
