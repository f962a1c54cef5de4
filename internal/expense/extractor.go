// extractor.go - Receipt field extraction: remote AI with local fallback

package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/snapspend/expense_ai_service/internal/ai"
	"github.com/snapspend/expense_ai_service/internal/logger"
	"github.com/snapspend/expense_ai_service/internal/storage"
)

// Data is the structured result of extracting fields from receipt text.
// Amount, date, and description may be absent; category is always a member
// of the closed enumeration.
type Data struct {
	Amount      *float64 `json:"amount"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
}

const (
	// fingerprintLength is the text prefix used as the cache key.
	fingerprintLength = 500

	// maxPromptTextLength caps how much receipt text goes to the model.
	maxPromptTextLength = 2000

	maxDescriptionLength = 100
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Extractor turns receipt text into structured expense data. Extraction
// never fails: any remote problem degrades to the local heuristics.
type Extractor struct {
	provider ai.Provider // nil disables all remote calls
	cache    *storage.Cache[Data]
	timeout  time.Duration
}

// NewExtractor creates an extractor. provider may be nil, in which case
// every call takes the fallback path.
func NewExtractor(provider ai.Provider, cache *storage.Cache[Data], timeout time.Duration) *Extractor {
	return &Extractor{
		provider: provider,
		cache:    cache,
		timeout:  timeout,
	}
}

// Extract returns best-effort structured data for the given receipt text.
func (e *Extractor) Extract(ctx context.Context, text string) Data {
	key := fingerprint(text)
	if cached, ok := e.cache.Get(key); ok {
		logger.Get().Debugw("returning cached extraction result")
		return cached
	}

	if e.provider == nil {
		return FallbackExtract(text)
	}

	result := ai.WithFallback(ctx, "extract",
		func(ctx context.Context) (Data, error) {
			return e.remoteExtract(ctx, text)
		},
		func() Data {
			return FallbackExtract(text)
		},
	)

	e.cache.Set(key, result)
	return result
}

// remoteExtract issues a single completion request and normalizes its JSON
// response. One timeout, no retries.
func (e *Extractor) remoteExtract(ctx context.Context, text string) (Data, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.provider.Complete(ctx, ai.CompletionRequest{
		Prompt:      buildExtractionPrompt(truncate(text, maxPromptTextLength)),
		Temperature: 0.2,
		MaxTokens:   200,
		JSONOnly:    true,
	})
	if err != nil {
		return Data{}, err
	}

	cleaned := stripCodeFences(raw)

	var parsed struct {
		Amount      any `json:"amount"`
		Date        any `json:"date"`
		Description any `json:"description"`
		Category    any `json:"category"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		preview := truncate(cleaned, 200)
		return Data{}, fmt.Errorf("invalid JSON response: %w (payload: %s)", err, preview)
	}

	// Normalize each field independently. Absent beats a guessed wrong
	// value for amount and date; category always lands in the enumeration.
	data := Data{Category: DefaultCategory}

	if amount, ok := parsed.Amount.(float64); ok {
		rounded := math.Round(amount*100) / 100
		data.Amount = &rounded
	}

	if date, ok := parsed.Date.(string); ok && isoDatePattern.MatchString(date) {
		if _, err := time.Parse("2006-01-02", date); err == nil {
			data.Date = &date
		}
	}

	if description, ok := parsed.Description.(string); ok {
		trimmed := truncate(strings.TrimSpace(description), maxDescriptionLength)
		data.Description = &trimmed
	}

	if category, ok := parsed.Category.(string); ok && IsValidCategory(category) {
		data.Category = category
	}

	return data, nil
}

// fingerprint returns the cache key for receipt text: its first 500 bytes.
func fingerprint(text string) string {
	if len(text) > fingerprintLength {
		return text[:fingerprintLength]
	}
	return text
}

// buildExtractionPrompt instructs the model to return only a fixed-shape
// JSON object, enumerating the closed category list with a worked example
// to steer formatting.
func buildExtractionPrompt(text string) string {
	categoriesList := strings.Join(CategoryNames(), ", ")
	return fmt.Sprintf(`Analyze this receipt text and extract structured data as JSON with these fields:
- amount (number or null): The total amount paid
- date (string in YYYY-MM-DD format or null): Transaction date
- description (string or null): Brief description (max 50 chars)
- category (string): One of: %s

IMPORTANT:
1. Respond ONLY with valid JSON containing these exact field names
2. For category, choose the most specific match from the provided list
3. If information is missing, use null except for category (default to 'Other')

Example response format:
{
  "amount": 19.99,
  "date": "2023-05-15",
  "description": "Coffee shop purchase",
  "category": "Food"
}

Receipt text: """%s"""`, categoriesList, text)
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models emit even when asked for bare JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
