// errors.go - Error categorization for AI provider failures

package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ProviderError represents a categorized AI provider error.
type ProviderError struct {
	OriginalError error
	Category      string
	StatusCode    int
	Message       string
}

func (e *ProviderError) Error() string {
	return e.Category + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.OriginalError
}

// CategorizeError analyzes a provider error and maps it to an HTTP status
// suitable for surfacing to the caller. There is no retry logic here - a
// single failed remote call goes straight to the local fallback, so the only
// consumer of the category is the response status mapping.
func CategorizeError(err error) *ProviderError {
	if err == nil {
		return nil
	}

	pe := &ProviderError{
		OriginalError: err,
		Category:      "unknown",
		StatusCode:    http.StatusInternalServerError,
		Message:       err.Error(),
	}

	// Google API errors carry an HTTP status code directly
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400:
			pe.Category = "bad_request"
			pe.StatusCode = http.StatusBadRequest
			pe.Message = "Invalid request format or parameters"
		case 401, 403:
			pe.Category = "auth"
			pe.StatusCode = http.StatusUnauthorized
			pe.Message = "Invalid API key or insufficient permissions"
		case 429:
			pe.Category = "quota"
			pe.StatusCode = http.StatusTooManyRequests
			pe.Message = "API quota exceeded"
		default:
			pe.Category = "server_error"
			pe.StatusCode = http.StatusInternalServerError
			pe.Message = "AI provider error"
		}
		return pe
	}

	// OpenAI errors likewise
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		switch oaErr.HTTPStatusCode {
		case 400:
			pe.Category = "bad_request"
			pe.StatusCode = http.StatusBadRequest
			pe.Message = "Invalid request format or parameters"
		case 401, 403:
			pe.Category = "auth"
			pe.StatusCode = http.StatusUnauthorized
			pe.Message = "Invalid API key or insufficient permissions"
		case 429:
			pe.Category = "quota"
			pe.StatusCode = http.StatusTooManyRequests
			pe.Message = "API quota exceeded"
		default:
			pe.Category = "server_error"
			pe.StatusCode = http.StatusInternalServerError
			pe.Message = "AI provider error"
		}
		return pe
	}

	if errors.Is(err, context.DeadlineExceeded) {
		pe.Category = "timeout"
		pe.StatusCode = http.StatusInternalServerError
		pe.Message = "AI request timed out"
		return pe
	}

	// Fall back to message patterns for wrapped transport errors
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "limit"):
		pe.Category = "quota"
		pe.StatusCode = http.StatusTooManyRequests
		pe.Message = "API quota exceeded"
	case strings.Contains(msg, "api key") || strings.Contains(msg, "auth") || strings.Contains(msg, "unauthorized"):
		pe.Category = "auth"
		pe.StatusCode = http.StatusUnauthorized
		pe.Message = "Authentication error"
	case strings.Contains(msg, "invalid"):
		pe.Category = "bad_request"
		pe.StatusCode = http.StatusBadRequest
		pe.Message = "Invalid request data"
	}
	return pe
}

// StatusForError returns the HTTP status an AI failure should surface as.
func StatusForError(err error) int {
	if pe := CategorizeError(err); pe != nil {
		return pe.StatusCode
	}
	return http.StatusInternalServerError
}
