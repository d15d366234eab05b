package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
)

// RemoteAnalyzer は独立プロセスとして動くLLMサービスに委譲する
// analysis.Analyzer 実装。ワイヤフォーマットはLLMサービスの /analyze と同じ
type RemoteAnalyzer struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemoteAnalyzer はLLMサービスのエンドポイントを指定してAnalyzerを作成する
func NewRemoteAnalyzer(endpoint string, timeout time.Duration, logger *slog.Logger) (*RemoteAnalyzer, error) {
	if endpoint == "" {
		return nil, errors.New("LLM service endpoint not set")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RemoteAnalyzer{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

type remoteAnalyzeRequest struct {
	FunctionCode string `json:"function_code"`
}

type remoteAnalyzeResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Analyze は関数ソースをLLMサービスに送信し、提案リストを受け取る
func (a *RemoteAnalyzer) Analyze(ctx context.Context, source string) ([]string, error) {
	body, err := json.Marshal(remoteAnalyzeRequest{FunctionCode: source})
	if err != nil {
		return nil, analysis.NewProviderError(ProviderRemote, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, analysis.NewProviderError(ProviderRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, analysis.NewProviderError(ProviderRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// エラーボディは診断ログにのみ残す
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		a.logger.Error("LLMサービスがエラーを返しました", "status", resp.StatusCode, "body", string(detail))
		return nil, analysis.NewProviderError(ProviderRemote, fmt.Errorf("LLM service returned status %d", resp.StatusCode))
	}

	var parsed remoteAnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, analysis.NewProviderError(ProviderRemote, fmt.Errorf("malformed LLM service response: %w", err))
	}

	return parsed.Suggestions, nil
}
