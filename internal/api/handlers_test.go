package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snapspend/expense_ai_service/configs"
	"github.com/snapspend/expense_ai_service/internal/ai"
	"github.com/snapspend/expense_ai_service/internal/expense"
	"github.com/snapspend/expense_ai_service/internal/storage"
	"github.com/snapspend/expense_ai_service/internal/tips"
)

type fakeProvider struct {
	ocrText string
	ocrErr  error
}

func (f *fakeProvider) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	return f.ocrText, f.ocrErr
}

func (f *fakeProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	// Force the deterministic local fallback for field extraction
	return "", errors.New("completion unavailable")
}

func (f *fakeProvider) Name() string { return "fake" }

func setupRouter(provider ai.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	configs.AI_TIMEOUT_SECONDS = 5

	cache := storage.NewCache[expense.Data](100, time.Hour)
	extractor := expense.NewExtractor(provider, cache, 5*time.Second)
	generator := tips.NewGenerator(provider, 5*time.Second)
	handler := NewHandler(provider, extractor, generator)

	router := gin.New()
	router.POST("/process-receipt", handler.ProcessReceipt)
	router.POST("/generate-tips", handler.GenerateTips)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func validImagePayload() string {
	return base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
}

func TestProcessReceiptMissingImage(t *testing.T) {
	router := setupRouter(&fakeProvider{})

	w := postJSON(router, "/process-receipt", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestProcessReceiptInvalidBase64(t *testing.T) {
	router := setupRouter(&fakeProvider{})

	w := postJSON(router, "/process-receipt", `{"imageBase64": "!!!not-base64!!!"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != false {
		t.Error("expected success=false")
	}
}

func TestProcessReceiptWithoutProvider(t *testing.T) {
	router := setupRouter(nil)

	w := postJSON(router, "/process-receipt", `{"imageBase64": "`+validImagePayload()+`"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 when no credential is configured, got %d", w.Code)
	}
}

func TestProcessReceiptSuccess(t *testing.T) {
	router := setupRouter(&fakeProvider{ocrText: "Total: Rs. 1,234.56"})

	w := postJSON(router, "/process-receipt", `{"imageBase64": "`+validImagePayload()+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Category string   `json:"category"`
			Amount   *float64 `json:"amount"`
			Date     *string  `json:"date"`
			Merchant *string  `json:"merchant"`
			RawText  string   `json:"rawText"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Data.Amount == nil || *resp.Data.Amount != 1234.56 {
		t.Errorf("expected amount 1234.56, got %v", resp.Data.Amount)
	}
	if resp.Data.Category != "Other" {
		t.Errorf("expected category Other, got %q", resp.Data.Category)
	}
	if resp.Data.RawText != "Total: Rs. 1,234.56" {
		t.Errorf("expected raw OCR text in response, got %q", resp.Data.RawText)
	}
}

func TestProcessReceiptDataURLPrefix(t *testing.T) {
	router := setupRouter(&fakeProvider{ocrText: "coffee 3.50"})

	body := `{"imageBase64": "data:image/png;base64,` + validImagePayload() + `"}`
	w := postJSON(router, "/process-receipt", body)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with data-URL prefix, got %d", w.Code)
	}
}

func TestProcessReceiptNoTextDetected(t *testing.T) {
	router := setupRouter(&fakeProvider{ocrText: ""})

	w := postJSON(router, "/process-receipt", `{"imageBase64": "`+validImagePayload()+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty transcription, got %d", w.Code)
	}
}

func TestProcessReceiptQuotaErrorMapsTo429(t *testing.T) {
	router := setupRouter(&fakeProvider{ocrErr: errors.New("daily quota exceeded")})

	w := postJSON(router, "/process-receipt", `{"imageBase64": "`+validImagePayload()+`"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestProcessReceiptAuthErrorMapsTo401(t *testing.T) {
	router := setupRouter(&fakeProvider{ocrErr: errors.New("invalid api key")})

	w := postJSON(router, "/process-receipt", `{"imageBase64": "`+validImagePayload()+`"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestGenerateTipsRejectsNonArray(t *testing.T) {
	router := setupRouter(nil)

	for _, body := range []string{`{"expenses": "nope"}`, `{}`, `{"expenses": 42}`} {
		w := postJSON(router, "/generate-tips", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestGenerateTipsEmptyList(t *testing.T) {
	router := setupRouter(nil)

	w := postJSON(router, "/generate-tips", `{"expenses": []}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["tips"] != tips.OnboardingTip {
		t.Errorf("expected onboarding tip, got %q", resp["tips"])
	}
}

func TestGenerateTipsStaticPath(t *testing.T) {
	router := setupRouter(nil)

	body := `{"expenses": [{"category": "Food", "amount": 10}, {"category": "Travel", "amount": 50}]}`
	w := postJSON(router, "/generate-tips", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["tips"] == "" {
		t.Error("expected a non-empty tip")
	}
}
