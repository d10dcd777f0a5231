package services

import (
	"context"
	"io"
	"net/url"

	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/core/translation_engine"
	"github.com/markdave123-py/doctranslate/internal/models"
)

// LanguageOption is one entry of the supported language list.
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TranslationResult is what a client needs to fetch a finished translation.
type TranslationResult struct {
	JobID       string `json:"job_id"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size"`
}

type TranslationService struct {
	runner translation_engine.Runner
}

func NewTranslationService(runner translation_engine.Runner) *TranslationService {
	return &TranslationService{runner: runner}
}

// Languages lists the supported languages in display order.
func (s *TranslationService) Languages() []LanguageOption {
	out := make([]LanguageOption, 0, len(language.All))
	for _, t := range language.All {
		out = append(out, LanguageOption{Code: t.String(), Name: t.DisplayName()})
	}
	return out
}

// Translate runs one job synchronously.
func (s *TranslationService) Translate(ctx context.Context, filename, source, target string, body io.Reader) (*TranslationResult, error) {
	out, err := s.runner.Run(ctx, translation_engine.Request{
		Filename:       filename,
		Body:           body,
		SourceLanguage: source,
		TargetLanguage: target,
	})
	if err != nil {
		return nil, err
	}
	return &TranslationResult{
		JobID:       out.JobID,
		Filename:    out.Filename,
		DownloadURL: DownloadPath(out),
		Size:        out.Size,
	}, nil
}

func (s *TranslationService) OpenOutput(ctx context.Context, jobID, filename string) (io.ReadCloser, error) {
	return s.runner.OpenOutput(ctx, jobID, filename)
}

// DownloadPath is the API path serving out.
func DownloadPath(out *models.OutputDocument) string {
	return "/api/download/" + url.PathEscape(out.JobID) + "/" + url.PathEscape(out.Filename)
}
