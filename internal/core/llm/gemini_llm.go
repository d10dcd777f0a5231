package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/doctranslate/internal/core"
)

var _ core.LLMProvider = (*GeminiLLM)(nil)

// ErrTruncated is returned when the model stopped at its output token limit.
// A partial translation is never passed on as a complete one.
var ErrTruncated = errors.New("gemini: output truncated at the token limit")

type generateFunc func(ctx context.Context, m *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error)

// GeminiLLM serves both detection and translation prompts. Every failure to
// produce a full answer is an error carrying the reason the API gave, so
// callers never see an empty string for a blocked or cut-off response.
type GeminiLLM struct {
	client    *genai.Client
	modelName string
	generate  generateFunc
}

// NewGeminiLLM falls back to GEMINI_API_KEY when apiKey is empty. Extra
// options are passed to the client (endpoint overrides, HTTP clients).
func NewGeminiLLM(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName, generate: generateContent}, nil
}

func generateContent(ctx context.Context, m *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return m.GenerateContent(ctx, parts...)
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiLLM) model(systemPrompt string) *genai.GenerativeModel {
	var m *genai.GenerativeModel
	if g.client != nil {
		m = g.client.GenerativeModel(g.modelName)
	} else {
		m = &genai.GenerativeModel{}
	}
	m.SetTemperature(0.2)
	m.SetCandidateCount(1)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}
	return m
}

func (g *GeminiLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := g.generate(ctx, g.model(systemPrompt), genai.Text(userPrompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("gemini: response %s: %w", blockReason(blocked), err)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return candidateText(resp)
}

// candidateText returns the text of the first candidate. A blocked prompt, a
// missing candidate, a non-STOP finish or an answer with no text are errors.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini: empty response")
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini: prompt blocked: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates returned")
	}

	c := resp.Candidates[0]
	switch c.FinishReason {
	case genai.FinishReasonStop, genai.FinishReasonUnspecified:
	case genai.FinishReasonMaxTokens:
		return "", ErrTruncated
	default:
		return "", fmt.Errorf("gemini: generation stopped: %s", c.FinishReason)
	}

	var b strings.Builder
	if c.Content != nil {
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("gemini: candidate has no text (finish reason %s)", c.FinishReason)
	}
	return b.String(), nil
}

func blockReason(e *genai.BlockedError) string {
	switch {
	case e.PromptFeedback != nil:
		return "prompt blocked: " + e.PromptFeedback.BlockReason.String()
	case e.Candidate != nil:
		return "candidate blocked: " + e.Candidate.FinishReason.String()
	}
	return "blocked"
}
