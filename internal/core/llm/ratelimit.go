package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/markdave123-py/doctranslate/internal/core"
)

var _ core.LLMProvider = (*RateLimited)(nil)

// RateLimited throttles calls to an LLMProvider. The limiter may be shared
// by several wrappers so that together they stay under one ceiling.
type RateLimited struct {
	next    core.LLMProvider
	limiter *rate.Limiter
}

// NewLimiter allows rps requests per second with a burst of one. It returns
// nil for a non-positive rps, which disables limiting.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// NewRateLimited wraps next with its own limiter.
func NewRateLimited(next core.LLMProvider, rps float64) core.LLMProvider {
	return WithLimiter(next, NewLimiter(rps))
}

// WithLimiter wraps next with limiter. A nil limiter returns next unchanged.
func WithLimiter(next core.LLMProvider, limiter *rate.Limiter) core.LLMProvider {
	if limiter == nil {
		return next
	}
	return &RateLimited{next: next, limiter: limiter}
}

func (r *RateLimited) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.next.Generate(ctx, systemPrompt, userPrompt)
}
