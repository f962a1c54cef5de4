// interface.go - AI provider interface for supporting multiple model vendors

package ai

import "context"

// CompletionRequest describes a single text completion call.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int

	// JSONOnly asks the model to emit a bare JSON object. Providers that
	// support a native JSON response mode enable it; the prompt itself must
	// still spell out the expected shape.
	JSONOnly bool
}

// Provider defines the interface that all AI providers must implement.
// This allows us to support multiple vendors (Gemini, OpenAI) with the same
// interface.
type Provider interface {
	// ExtractText transcribes all visible text from a receipt image verbatim.
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)

	// Complete issues a single text completion request.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name returns the provider name (e.g. "gemini", "openai").
	Name() string
}

// ocrInstruction is the verbatim-transcription prompt sent with every image.
const ocrInstruction = "Extract all text from this receipt image exactly as it appears, " +
	"including numbers, dates, and prices. Preserve the original formatting and layout " +
	"as much as possible."
