package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/amirrhe/code-review-system/internal/infra/llm"
	"github.com/gin-gonic/gin"
)

// LLMHandler はLLMサービスのエンドポイントを提供する
// Code Analysisサービスの remote プロバイダがこのAPIに委譲してくる
type LLMHandler struct {
	analyzer analysis.Analyzer
}

// NewLLMHandler は新しい LLMHandler を作成する
func NewLLMHandler(analyzer analysis.Analyzer) *LLMHandler {
	return &LLMHandler{analyzer: analyzer}
}

type llmAnalyzeRequest struct {
	FunctionCode string `json:"function_code" binding:"required"`
}

// Root はサービスの稼働確認用メッセージを返す
func (h *LLMHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "LLM Service is running"})
}

// Analyze は関数ソースをAnalyzerに渡して提案を返す
func (h *LLMHandler) Analyze(c *gin.Context) {
	var req llmAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := h.analyzer.Analyze(c.Request.Context(), req.FunctionCode)
	if err != nil {
		var providerErr *analysis.ProviderError
		switch {
		case errors.Is(err, llm.ErrSourceTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.As(err, &providerErr):
			slog.ErrorContext(c.Request.Context(), "analyzer provider error", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "analyzer provider error"})
		default:
			slog.ErrorContext(c.Request.Context(), "analysis failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
