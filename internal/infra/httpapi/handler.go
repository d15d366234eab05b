package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/amirrhe/code-review-system/internal/infra/llm"
	"github.com/gin-gonic/gin"
)

// AnalysisService はHTTP層が必要とするオーケストレータの操作
type AnalysisService interface {
	Start(ctx context.Context, repoRef string) (string, error)
	Status(ctx context.Context, jobID string) (*analysis.Job, error)
	Extract(ctx context.Context, jobID, functionRef string) ([]string, error)
}

// AnalysisHandler はCode Analysisサービスのエンドポイントを提供する
type AnalysisHandler struct {
	service AnalysisService
	metrics *Metrics
}

// NewAnalysisHandler は新しい AnalysisHandler を作成する
func NewAnalysisHandler(service AnalysisService, metrics *Metrics) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		metrics: metrics,
	}
}

type startAnalysisRequest struct {
	RepoURL string `json:"repo_url" binding:"required"`
}

type analyzeFunctionRequest struct {
	JobID        string `json:"job_id" binding:"required"`
	FunctionName string `json:"function_name" binding:"required,function_ref"`
}

type jobStatusResponse struct {
	JobID       string    `json:"job_id"`
	RepoURL     string    `json:"repo_url"`
	Status      string    `json:"status"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Root はサービスの稼働確認用メッセージを返す
func (h *AnalysisHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Code Analysis Service is running"})
}

// Start はリポジトリ取得ジョブを開始してジョブIDを返す
func (h *AnalysisHandler) Start(c *gin.Context) {
	var req startAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID, err := h.service.Start(c.Request.Context(), req.RepoURL)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to start analysis job", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start analysis job"})
		return
	}

	h.metrics.JobStarted()
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

// Status はジョブの現在の状態を返す
func (h *AnalysisHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		status, message := statusForError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, jobStatusResponse{
		JobID:       job.ID,
		RepoURL:     job.RepoRef,
		Status:      string(job.Status),
		ErrorDetail: job.ErrorDetail,
		CreatedAt:   job.CreatedAt,
	})
}

// Function は関数を抽出してAnalyzerの提案を返す
func (h *AnalysisHandler) Function(c *gin.Context) {
	var req analyzeFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := h.service.Extract(c.Request.Context(), req.JobID, req.FunctionName)
	if err != nil {
		h.metrics.ExtractionCompleted(OutcomeError)
		status, message := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request.Context(), "extraction failed", "jobID", req.JobID, "function", req.FunctionName, "error", err)
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	h.metrics.ExtractionCompleted(OutcomeOK)
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// statusForError はエラー種別をHTTPステータスに対応付ける
// 呼び出し側が「後で再試行」(409)と「このジョブでは成功しない」(422)と
// 「入力が不正」(400/404)を区別できるようにする
func statusForError(err error) (int, string) {
	var jobFailed *analysis.JobFailedError
	var providerErr *analysis.ProviderError

	switch {
	case errors.Is(err, analysis.ErrInvalidFunctionRef):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, analysis.ErrJobNotFound),
		errors.Is(err, analysis.ErrModuleNotFound),
		errors.Is(err, analysis.ErrFunctionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, analysis.ErrJobNotReady):
		return http.StatusConflict, err.Error()
	case errors.As(err, &jobFailed):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, llm.ErrSourceTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, "analyzer provider error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
