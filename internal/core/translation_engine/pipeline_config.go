package translation_engine

import "time"

const (
	DefaultDetectTimeout    = 30 * time.Second
	DefaultTranslateTimeout = 5 * time.Minute
)

// PipelineConfig tunes a pipeline run.
//
// DetectTimeout:    deadline for the language detection call.
// TranslateTimeout: deadline for the whole translation, all chunks included.
type PipelineConfig struct {
	DetectTimeout    time.Duration
	TranslateTimeout time.Duration
}

// withDefaults fills zero fields.
func (c *PipelineConfig) withDefaults() PipelineConfig {
	out := PipelineConfig{}
	if c != nil {
		out = *c
	}
	if out.DetectTimeout <= 0 {
		out.DetectTimeout = DefaultDetectTimeout
	}
	if out.TranslateTimeout <= 0 {
		out.TranslateTimeout = DefaultTranslateTimeout
	}
	return out
}
