// gemini.go - Gemini provider built on the official generative-ai-go client

package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/snapspend/expense_ai_service/internal/ratelimit"
)

// GeminiProvider implements Provider using the Gemini API.
type GeminiProvider struct {
	apiKey      string
	model       string
	visionModel string
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(apiKey, model, visionModel string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:      apiKey,
		model:       model,
		visionModel: visionModel,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// ExtractText transcribes the receipt image via the Gemini vision model.
func (p *GeminiProvider) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	if err := ratelimit.WaitForRateLimit(ctx); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.visionModel)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: ptrInt32(1000),
	}

	resp, err := model.GenerateContent(ctx,
		genai.Text(ocrInstruction),
		genai.Blob{
			MIMEType: mimeType,
			Data:     image,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini OCR request failed: %w", err)
	}

	text := firstTextPart(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return text, nil
}

// Complete issues a single text completion request against the Gemini model.
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := ratelimit.WaitForRateLimit(ctx); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.GenerationConfig.MaxOutputTokens = ptrInt32(int32(req.MaxTokens))
	}
	if req.JSONOnly {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := firstTextPart(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return text, nil
}

// firstTextPart pulls the first text part out of a Gemini response.
func firstTextPart(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text)
		}
	}
	return ""
}

func ptrInt32(v int32) *int32 {
	return &v
}
