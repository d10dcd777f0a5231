package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/markdave123-py/doctranslate/internal/api/handlers"
	"github.com/markdave123-py/doctranslate/internal/config"
	"github.com/markdave123-py/doctranslate/internal/core"
	db "github.com/markdave123-py/doctranslate/internal/core/database"
	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/core/llm"
	objectclient "github.com/markdave123-py/doctranslate/internal/core/object-client"
	"github.com/markdave123-py/doctranslate/internal/core/translation_engine"
	"github.com/markdave123-py/doctranslate/internal/services"
)

type App struct {
	Pipeline *translation_engine.Pipeline
	Service  *services.TranslationService
	Server   *Server

	closers []io.Closer
}

// NewApp builds every long-lived dependency once: file stores, model
// clients, the optional translation memory and the pipeline over them.
//
// Google clients keep ctx for token refresh, so they get the caller's
// context rather than the startup deadline.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	a := &App{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	uploads, outputs, err := newStores(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("File stores initialized (%s).", cfg.StorageBackend)

	// One limiter for both models keeps the combined rate under the ceiling.
	limiter := llm.NewLimiter(cfg.RequestsPerSec)
	detectLLM, err := a.newProvider(ctx, cfg, cfg.DetectModel, limiter)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the detection model, %w", err)
	}
	translateLLM, err := a.newProvider(ctx, cfg, cfg.TranslateModel, limiter)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the translation model, %w", err)
	}
	if cfg.PDFFontPath == "" {
		log.Println("PDF_FONT_PATH not set; output outside cp1252 (Arabic) will be refused.")
	}
	log.Printf("LLM provider %s ready (detect=%s, translate=%s).", cfg.LLMProvider, cfg.DetectModel, cfg.TranslateModel)

	var detector core.LanguageDetector
	switch cfg.DetectorBackend {
	case "lingua":
		detector = translation_engine.NewLinguaDetector(translation_engine.DefaultSampleChars)
	default:
		detector = translation_engine.NewLLMDetector(detectLLM, translation_engine.DefaultSampleChars)
	}

	var memory core.TranslationMemory
	if cfg.TranslationCacheDSN != "" {
		mem, err := db.NewTranslationMemory(appCtx, cfg.TranslationCacheDSN)
		if err != nil {
			return nil, fmt.Errorf("translation memory: %w", err)
		}
		a.closers = append(a.closers, mem)
		memory = mem.ForEngine(translationEngine(cfg))
		log.Println("Translation memory initialized and ready.")
	}

	var base core.Translator
	switch cfg.TranslatorBackend {
	case "google":
		g, err := translation_engine.NewGoogleTranslator(ctx, cfg.GoogleCredentialsFile, cfg.MaxChunkTokens)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g)
		base = g
	default:
		base = translation_engine.NewLLMTranslator(translateLLM, cfg.MaxChunkTokens, cfg.TranslateConcurrency)
	}
	translator := translation_engine.NewCachedTranslator(base, memory)

	a.Pipeline = translation_engine.NewTranslationPipeline(
		translation_engine.NewDocconvExtractor(),
		detector,
		language.NewValidator(language.NewTable(cfg.LanguageAliases)),
		translator,
		translation_engine.NewPDFRenderer(cfg.PDFFontPath),
		translation_engine.NewArtifactManager(uploads, outputs),
		&translation_engine.PipelineConfig{
			DetectTimeout:    cfg.DetectTimeout,
			TranslateTimeout: cfg.TranslateTimeout,
		},
	)
	a.Service = services.NewTranslationService(a.Pipeline)
	a.Server = NewServer(cfg, handlers.NewTranslateHandler(a.Service))

	ok = true
	return a, nil
}

// newProvider builds one model client behind limiter, which may be nil.
func (a *App) newProvider(ctx context.Context, cfg *config.Config, model string, limiter *rate.Limiter) (core.LLMProvider, error) {
	var provider core.LLMProvider
	switch cfg.LLMProvider {
	case "gemini":
		g, err := llm.NewGeminiLLM(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g)
		provider = g
	default:
		provider = llm.NewOpenAILLM(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model)
	}
	return llm.WithLimiter(provider, limiter), nil
}

// translationEngine names what produces translations, so switching backend or
// model never serves entries made by another.
func translationEngine(cfg *config.Config) string {
	if cfg.TranslatorBackend == "google" {
		return "google"
	}
	return "llm:" + cfg.LLMProvider + ":" + cfg.TranslateModel
}

// newStores returns the upload and output stores. Uploads and outputs never
// share a key space.
func newStores(ctx context.Context, cfg *config.Config) (core.FileStore, core.FileStore, error) {
	if cfg.StorageBackend == "s3" {
		client, err := objectclient.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return objectclient.NewS3Store(client, cfg.BucketName, "uploads"),
			objectclient.NewS3Store(client, cfg.BucketName, "outputs"), nil
	}

	uploads, err := objectclient.NewLocalStore(filepath.Join(cfg.DataDir, "uploads"))
	if err != nil {
		return nil, nil, err
	}
	outputs, err := objectclient.NewLocalStore(filepath.Join(cfg.DataDir, "outputs"))
	if err != nil {
		return nil, nil, err
	}
	return uploads, outputs, nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Printf("App: close: %v", err)
		}
	}
	a.closers = nil
}
