// Completion and embedding collaborator. All LLM non-determinism in the
// system is isolated behind CompletionClient; everything above it is
// deterministic given the collaborator's output.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrUnavailable reports that the completion collaborator could not be
// reached (network, timeout, quota).
var ErrUnavailable = errors.New("completion service unavailable")

// CompletionClient is an opaque text-completion function.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements CompletionClient and the retrieval embedder on top
// of the Gemini API.
type GeminiClient struct {
	model    *genai.GenerativeModel
	embedder *genai.EmbeddingModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName, embeddingModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Routing and extraction want the most deterministic output the model offers.
	model.SetTemperature(0)

	return &GeminiClient{
		model:    model,
		embedder: client.EmbeddingModel(embeddingModel),
	}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", ErrUnavailable)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates: %w", ErrUnavailable)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// Embed returns the embedding vector for the given text.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", ErrUnavailable)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding: %w", ErrUnavailable)
	}
	return resp.Embedding.Values, nil
}
