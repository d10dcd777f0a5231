package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/markdave123-py/doctranslate/internal/core/language"
)

type Config struct {
	Port string

	LLMProvider      string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string
	DetectModel      string
	TranslateModel   string
	DetectorBackend  string
	RequestsPerSec   float64
	DetectTimeout    time.Duration
	TranslateTimeout time.Duration

	TranslatorBackend     string
	GoogleCredentialsFile string

	MaxUploadBytes       int64
	MaxChunkTokens       int
	TranslateConcurrency int

	StorageBackend string
	DataDir        string
	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	BucketName     string

	TranslationCacheDSN string
	PDFFontPath         string
	LanguageAliases     map[language.Tag][]string
	AllowedOrigins      []string
}

// Model defaults per provider, used when DETECT_MODEL or TRANSLATE_MODEL is
// unset.
var (
	defaultDetectModels    = map[string]string{"openai": "gpt-4o-mini", "gemini": "gemini-1.5-flash"}
	defaultTranslateModels = map[string]string{"openai": "gpt-4o", "gemini": "gemini-1.5-pro"}
)

var defaults = map[string]any{
	"PORT":                    "8080",
	"LLM_PROVIDER":            "openai",
	"OPENAI_BASE_URL":         "https://api.openai.com/v1",
	"DETECTOR_BACKEND":        "llm",
	"TRANSLATOR_BACKEND":      "llm",
	"LLM_REQUESTS_PER_SECOND": "0",
	"DETECT_TIMEOUT":          "30s",
	"TRANSLATE_TIMEOUT":       "5m",
	"MAX_UPLOAD_BYTES":        "16777216",
	"MAX_CHUNK_TOKENS":        "3000",
	"TRANSLATE_CONCURRENCY":   "4",
	"STORAGE_BACKEND":         "local",
	"DATA_DIR":                "data",
	"AWS_REGION":              "us-east-2",
	"BUCKET_NAME":             "doctranslate-files",
	"ALLOWED_ORIGINS":         "*",
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		LLMProvider:         strings.ToLower(v.GetString("LLM_PROVIDER")),
		OpenAIAPIKey:        v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:       v.GetString("OPENAI_BASE_URL"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		DetectModel:         v.GetString("DETECT_MODEL"),
		TranslateModel:      v.GetString("TRANSLATE_MODEL"),
		DetectorBackend:     strings.ToLower(v.GetString("DETECTOR_BACKEND")),
		TranslatorBackend:   strings.ToLower(v.GetString("TRANSLATOR_BACKEND")),
		StorageBackend:      strings.ToLower(v.GetString("STORAGE_BACKEND")),
		DataDir:             v.GetString("DATA_DIR"),
		AwsAccessKey:        v.GetString("AWS_ACCESS_KEY"),
		AwsSecretKey:        v.GetString("AWS_SECRET_KEY"),
		AwsRegion:           v.GetString("AWS_REGION"),
		BucketName:          v.GetString("BUCKET_NAME"),
		TranslationCacheDSN: v.GetString("TRANSLATION_CACHE_DSN"),
		PDFFontPath:         v.GetString("PDF_FONT_PATH"),
		AllowedOrigins:      splitList(v.GetString("ALLOWED_ORIGINS")),
	}

	// Same variable the Google client libraries read on their own.
	cfg.GoogleCredentialsFile = v.GetString("GOOGLE_APPLICATION_CREDENTIALS")

	if cfg.DetectModel == "" {
		cfg.DetectModel = defaultDetectModels[cfg.LLMProvider]
	}
	if cfg.TranslateModel == "" {
		cfg.TranslateModel = defaultTranslateModels[cfg.LLMProvider]
	}

	var errs []error
	var err error
	if cfg.DetectTimeout, err = cast.ToDurationE(v.GetString("DETECT_TIMEOUT")); err != nil {
		errs = append(errs, fmt.Errorf("DETECT_TIMEOUT: %w", err))
	}
	if cfg.TranslateTimeout, err = cast.ToDurationE(v.GetString("TRANSLATE_TIMEOUT")); err != nil {
		errs = append(errs, fmt.Errorf("TRANSLATE_TIMEOUT: %w", err))
	}
	if cfg.MaxUploadBytes, err = cast.ToInt64E(v.GetString("MAX_UPLOAD_BYTES")); err != nil || cfg.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: must be a positive integer, got %q", v.GetString("MAX_UPLOAD_BYTES")))
	}
	if cfg.MaxChunkTokens, err = cast.ToIntE(v.GetString("MAX_CHUNK_TOKENS")); err != nil || cfg.MaxChunkTokens < 0 {
		errs = append(errs, fmt.Errorf("MAX_CHUNK_TOKENS: must be zero or a positive integer, got %q", v.GetString("MAX_CHUNK_TOKENS")))
	}
	if cfg.TranslateConcurrency, err = cast.ToIntE(v.GetString("TRANSLATE_CONCURRENCY")); err != nil || cfg.TranslateConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("TRANSLATE_CONCURRENCY: must be a positive integer, got %q", v.GetString("TRANSLATE_CONCURRENCY")))
	}
	if cfg.RequestsPerSec, err = cast.ToFloat64E(v.GetString("LLM_REQUESTS_PER_SECOND")); err != nil || cfg.RequestsPerSec < 0 {
		errs = append(errs, fmt.Errorf("LLM_REQUESTS_PER_SECOND: must be a non-negative number, got %q", v.GetString("LLM_REQUESTS_PER_SECOND")))
	}
	if cfg.LanguageAliases, err = ParseLanguageAliases(v.GetString("LANGUAGE_ALIASES")); err != nil {
		errs = append(errs, fmt.Errorf("LANGUAGE_ALIASES: %w", err))
	}

	switch cfg.LLMProvider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER: unknown provider %q", cfg.LLMProvider))
	}
	switch cfg.DetectorBackend {
	case "llm", "lingua":
	default:
		errs = append(errs, fmt.Errorf("DETECTOR_BACKEND: unknown backend %q", cfg.DetectorBackend))
	}
	switch cfg.TranslatorBackend {
	case "llm", "google":
	default:
		errs = append(errs, fmt.Errorf("TRANSLATOR_BACKEND: unknown backend %q", cfg.TranslatorBackend))
	}
	switch cfg.StorageBackend {
	case "local":
		if cfg.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR not set"))
		}
	case "s3":
		if cfg.BucketName == "" {
			errs = append(errs, errors.New("BUCKET_NAME not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND: unknown backend %q", cfg.StorageBackend))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// ParseLanguageAliases reads "french=francais|fra;swahili=kiswahili".
func ParseLanguageAliases(s string) (map[language.Tag][]string, error) {
	out := map[language.Tag][]string{}
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, list, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not of the form language=alias|alias", entry)
		}
		tag, err := language.Parse(name)
		if err != nil {
			return nil, err
		}
		for _, alias := range strings.Split(list, "|") {
			if alias = strings.TrimSpace(alias); alias != "" {
				out[tag] = append(out[tag], alias)
			}
		}
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
