// handlers.go - HTTP handlers for receipt processing and tip generation

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snapspend/expense_ai_service/configs"
	"github.com/snapspend/expense_ai_service/internal/ai"
	"github.com/snapspend/expense_ai_service/internal/expense"
	"github.com/snapspend/expense_ai_service/internal/logger"
	"github.com/snapspend/expense_ai_service/internal/processor"
	"github.com/snapspend/expense_ai_service/internal/tips"
)

// Handler wires the two endpoints to their services.
type Handler struct {
	provider   ai.Provider // nil when no credential is configured
	extractor  *expense.Extractor
	tips       *tips.Generator
	ocrTimeout time.Duration
}

// NewHandler creates the API handler.
func NewHandler(provider ai.Provider, extractor *expense.Extractor, generator *tips.Generator) *Handler {
	return &Handler{
		provider:   provider,
		extractor:  extractor,
		tips:       generator,
		ocrTimeout: time.Duration(configs.AI_TIMEOUT_SECONDS) * time.Second,
	}
}

// ProcessReceiptRequest is the body for POST /process-receipt.
type ProcessReceiptRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required"`
}

// ReceiptData is the payload returned for a processed receipt.
type ReceiptData struct {
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
	Date     *string  `json:"date"`
	Merchant *string  `json:"merchant"`
	RawText  string   `json:"rawText"`
}

// GenerateTipsRequest is the body for POST /generate-tips.
type GenerateTipsRequest struct {
	Expenses []tips.Expense `json:"expenses"`
}

// ProcessReceipt handles POST /process-receipt: base64 image in, structured
// expense data out. OCR is the one step with no fallback; everything after
// it degrades gracefully.
func (h *Handler) ProcessReceipt(c *gin.Context) {
	var req ProcessReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Valid imageBase64 string is required",
			"details": err.Error(),
		})
		return
	}

	image, mimeType, err := processor.DecodeReceiptImage(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid base64 image data",
			"details": err.Error(),
		})
		return
	}

	// Field extraction and tips fall back locally, but raw OCR cannot:
	// without a configured provider there is no way to read the image.
	if h.provider == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Authentication error",
			"details": "no AI API key configured; receipt OCR is unavailable",
		})
		return
	}

	if configs.ENABLE_IMAGE_PREPROCESSING {
		image, mimeType = processor.PreprocessImage(image, mimeType, configs.MAX_IMAGE_DIMENSION)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.ocrTimeout)
	defer cancel()

	rawText, err := h.provider.ExtractText(ctx, image, mimeType)
	if err != nil {
		pe := ai.CategorizeError(err)
		logger.Get().Errorw("receipt OCR failed",
			"provider", h.provider.Name(),
			"category", pe.Category,
			"error", err.Error(),
		)
		c.JSON(pe.StatusCode, gin.H{
			"success": false,
			"error":   pe.Message,
			"details": err.Error(),
		})
		return
	}

	if rawText == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No text content detected in the image",
			"details": "the vision model returned an empty transcription",
		})
		return
	}

	logger.Get().Infow("OCR completed", "text_length", len(rawText))

	// Never fails; degrades to local heuristics on any remote problem.
	data := h.extractor.Extract(c.Request.Context(), rawText)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": ReceiptData{
			Category: data.Category,
			Amount:   data.Amount,
			Date:     data.Date,
			Merchant: data.Description,
			RawText:  rawText,
		},
	})
}

// GenerateTips handles POST /generate-tips: expense list in, one tip out.
func (h *Handler) GenerateTips(c *gin.Context) {
	var req GenerateTipsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Expenses == nil {
		details := "expenses must be an array of {category, amount, description}"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid input: expenses array is required.",
			"details": details,
		})
		return
	}

	expenses := req.Expenses
	if len(expenses) > configs.MAX_TIP_EXPENSES {
		expenses = expenses[:configs.MAX_TIP_EXPENSES]
	}

	logger.Get().Infow("generating tips", "expense_count", len(expenses))

	tip := h.tips.Generate(c.Request.Context(), expenses, false)
	c.JSON(http.StatusOK, gin.H{"tips": tip})
}
