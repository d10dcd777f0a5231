package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textResponse(reason genai.FinishReason, parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: parts},
			FinishReason: reason,
		}},
	}
}

func fakeGemini(resp *genai.GenerateContentResponse, err error) (*GeminiLLM, *genai.GenerativeModel) {
	g := &GeminiLLM{modelName: "gemini-test"}
	var seen genai.GenerativeModel
	g.generate = func(_ context.Context, m *genai.GenerativeModel, _ ...genai.Part) (*genai.GenerateContentResponse, error) {
		seen = *m
		return resp, err
	}
	return g, &seen
}

func TestGeminiLLM_Generate_JoinsTextParts(t *testing.T) {
	g, seen := fakeGemini(textResponse(genai.FinishReasonStop, genai.Text("Hello "), genai.Text("world")), nil)

	out, err := g.Generate(context.Background(), "Translate.", "Bonjour le monde")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", out)

	require.NotNil(t, seen.SystemInstruction)
	assert.Equal(t, []genai.Part{genai.Text("Translate.")}, seen.SystemInstruction.Parts)
	require.NotNil(t, seen.Temperature)
	assert.InDelta(t, 0.2, *seen.Temperature, 1e-6)
}

func TestGeminiLLM_Generate_NoSystemPrompt(t *testing.T) {
	g, seen := fakeGemini(textResponse(genai.FinishReasonStop, genai.Text("french")), nil)

	_, err := g.Generate(context.Background(), "", "sample")
	require.NoError(t, err)
	assert.Nil(t, seen.SystemInstruction)
}

func TestGeminiLLM_Generate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		wantErr string
	}{
		{
			name:    "prompt blocked",
			resp:    &genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}},
			wantErr: "prompt blocked: BlockReasonSafety",
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: "no candidates",
		},
		{
			name:    "recitation",
			resp:    textResponse(genai.FinishReasonRecitation, genai.Text("partial")),
			wantErr: "FinishReasonRecitation",
		},
		{
			name:    "empty text",
			resp:    textResponse(genai.FinishReasonStop, genai.Text("  ")),
			wantErr: "no text",
		},
		{
			name:    "blocked by client",
			err:     &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonOther}},
			wantErr: "prompt blocked: BlockReasonOther",
		},
		{
			name:    "transport",
			err:     errors.New("connection reset"),
			wantErr: "gemini generate: connection reset",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := fakeGemini(tc.resp, tc.err)
			_, err := g.Generate(context.Background(), "sys", "user")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestGeminiLLM_Generate_TruncatedIsError(t *testing.T) {
	g, _ := fakeGemini(textResponse(genai.FinishReasonMaxTokens, genai.Text("Hello wor")), nil)

	_, err := g.Generate(context.Background(), "Translate.", "Bonjour le monde")
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestNewGeminiLLM_RequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewGeminiLLM(context.Background(), "", "")
	assert.ErrorContains(t, err, "api key")
}
