package httpapi

import "github.com/gin-gonic/gin"

// AnalyzeRouter はCode Analysisサービスのルートを登録する
func AnalyzeRouter(rg *gin.RouterGroup, h *AnalysisHandler) {
	rg.POST("/start", h.Start)
	rg.POST("/function", h.Function)
	rg.GET("/status/:job_id", h.Status)
}

// LLMRouter はLLMサービスのルートを登録する
func LLMRouter(rg *gin.RouterGroup, h *LLMHandler) {
	rg.POST("/analyze", h.Analyze)
}
