package translation_engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/models"
)

var _ Runner = (*Pipeline)(nil)

// Request is one document submitted for translation. Languages are raw user
// input and are checked during admission.
type Request struct {
	Filename       string
	Body           io.Reader
	SourceLanguage string
	TargetLanguage string
}

// Pipeline runs extraction, detection, validation, translation and
// rendering for one document at a time per call. It holds no per-job state,
// so one Pipeline serves concurrent requests.
//
// OnState, when set, is called on every state transition, failures included.
type Pipeline struct {
	extractor  core.TextExtractor
	detector   core.LanguageDetector
	validator  *language.Validator
	translator core.Translator
	renderer   core.DocumentRenderer
	artifacts  *ArtifactManager
	cfg        PipelineConfig
	newID      func() string

	OnState func(job *models.TranslationJob)
}

func NewTranslationPipeline(
	extractor core.TextExtractor,
	detector core.LanguageDetector,
	validator *language.Validator,
	translator core.Translator,
	renderer core.DocumentRenderer,
	artifacts *ArtifactManager,
	cfg *PipelineConfig,
) *Pipeline {
	if validator == nil {
		validator = language.NewValidator(nil)
	}
	return &Pipeline{
		extractor:  extractor,
		detector:   detector,
		validator:  validator,
		translator: translator,
		renderer:   renderer,
		artifacts:  artifacts,
		cfg:        cfg.withDefaults(),
		newID:      uuid.NewString,
	}
}

// Run admits the request, stores the input and drives it through every
// stage. The stored input is removed before Run returns, whatever the
// outcome. Failures are *core.PipelineError values.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.OutputDocument, error) {
	job, err := p.admit(req)
	if err != nil {
		log.Printf("TranslationPipeline: rejected %q: %v", req.Filename, err)
		return nil, err
	}
	p.transition(job, models.StateReceived)

	src, err := p.artifacts.SaveInput(ctx, job.ID, req.Filename, job.Source.Format, req.Body)
	if err != nil {
		return nil, p.fail(job, core.ErrStorageUnavailable, err)
	}
	job.Source = src

	defer func() {
		// The caller's context may already be done; cleanup must still run.
		if err := p.artifacts.DeleteInput(context.WithoutCancel(ctx), src); err != nil {
			log.Printf("TranslationPipeline: job %s: failed to remove input %s: %v", job.ID, src.StoredName, err)
		}
	}()

	if job.ExtractedText, err = p.extract(ctx, src); err != nil {
		return nil, p.fail(job, core.ErrUnreadableDocument, err)
	}
	p.transition(job, models.StateExtracted)

	if job.DetectedLanguage, err = p.detect(ctx, job.ExtractedText); err != nil {
		return nil, p.fail(job, core.ErrDetectionUnavailable, err)
	}
	if err := p.validator.Validate(job.DetectedLanguage, job.SourceLanguage); err != nil {
		return nil, p.fail(job, core.ErrLanguageMismatch, err)
	}
	p.transition(job, models.StateLanguageChecked)

	if job.TranslatedText, err = p.translate(ctx, job); err != nil {
		return nil, p.fail(job, core.ErrTranslationUnavailable, err)
	}
	p.transition(job, models.StateTranslated)

	var buf bytes.Buffer
	if err := p.renderer.Render(job.TranslatedText, &buf); err != nil {
		return nil, p.fail(job, core.ErrRenderError, err)
	}
	p.transition(job, models.StateRendered)

	if job.Output, err = p.artifacts.SaveOutput(ctx, job.ID, src, p.renderer.Ext(), buf.Bytes()); err != nil {
		return nil, p.fail(job, core.ErrRenderError, err)
	}
	p.transition(job, models.StatePersisted)

	return job.Output, nil
}

// OpenOutput returns a previously persisted output.
func (p *Pipeline) OpenOutput(ctx context.Context, jobID, filename string) (io.ReadCloser, error) {
	return p.artifacts.OpenOutput(ctx, jobID, filename)
}

// admit validates the request before anything is stored or read.
func (p *Pipeline) admit(req Request) (*models.TranslationJob, error) {
	name := strings.TrimSpace(req.Filename)
	if name == "" || req.Body == nil {
		return nil, core.NewInvalidRequest("no file provided")
	}
	format, ok := models.FormatFromFilename(name)
	if !ok {
		return nil, core.NewInvalidRequest("unsupported file type, expected pdf or docx")
	}
	source, err := language.Parse(req.SourceLanguage)
	if err != nil {
		return nil, core.NewInvalidRequest("unsupported source language %q", req.SourceLanguage)
	}
	target, err := language.Parse(req.TargetLanguage)
	if err != nil {
		return nil, core.NewInvalidRequest("unsupported target language %q", req.TargetLanguage)
	}
	if source == target {
		return nil, core.NewInvalidRequest("source and target languages cannot be the same")
	}

	return &models.TranslationJob{
		ID:             p.newID(),
		Source:         models.SourceDocument{Filename: name, Format: format},
		SourceLanguage: source,
		TargetLanguage: target,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (p *Pipeline) extract(ctx context.Context, src models.SourceDocument) (string, error) {
	rc, err := p.artifacts.OpenInput(ctx, src)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer rc.Close()

	return p.extractor.ExtractText(ctx, rc, src.Format)
}

func (p *Pipeline) detect(ctx context.Context, text string) (string, error) {
	dctx, cancel := context.WithTimeout(ctx, p.cfg.DetectTimeout)
	defer cancel()

	detected, err := p.detector.Detect(dctx, text)
	if err != nil {
		return "", deadlineError(dctx, p.cfg.DetectTimeout, err)
	}
	detected = strings.TrimSpace(detected)
	if detected == "" {
		return "", errEmptyResponse
	}
	return detected, nil
}

func (p *Pipeline) translate(ctx context.Context, job *models.TranslationJob) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, p.cfg.TranslateTimeout)
	defer cancel()

	translated, err := p.translator.Translate(tctx, job.ExtractedText, job.SourceLanguage, job.TargetLanguage)
	if err != nil {
		return "", deadlineError(tctx, p.cfg.TranslateTimeout, err)
	}
	if strings.TrimSpace(translated) == "" {
		return "", errEmptyResponse
	}
	return translated, nil
}

func (p *Pipeline) transition(job *models.TranslationJob, state models.JobState) {
	job.State = state
	log.Printf("TranslationPipeline: job %s -> %s", job.ID, state)
	if p.OnState != nil {
		p.OnState(job)
	}
}

// fail records the failure on job and returns it as a *core.PipelineError
// tagged with the last state reached.
func (p *Pipeline) fail(job *models.TranslationJob, kind, err error) error {
	pe := &core.PipelineError{JobID: job.ID, Stage: job.State, Kind: kind, Err: err}
	job.State = models.StateFailed
	log.Printf("TranslationPipeline: job %s -> %s: %v", job.ID, models.StateFailed, pe)
	if p.OnState != nil {
		p.OnState(job)
	}
	return pe
}

// deadlineError marks err as a timeout when the stage deadline expired.
func deadlineError(ctx context.Context, d time.Duration, err error) error {
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", d, err)
	}
	return fmt.Errorf("timed out after %s: %w: %w", d, context.DeadlineExceeded, err)
}
