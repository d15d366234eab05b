package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// DefaultOllamaModel はローカルプロバイダのデフォルトモデル
const DefaultOllamaModel = "qwen2.5-coder:1.5b"

// OllamaAnalyzer はローカルのOllamaを使う analysis.Analyzer 実装
type OllamaAnalyzer struct {
	llm     *ollama.LLM
	timeout time.Duration
}

// NewOllamaAnalyzer はOllamaサーバに接続するAnalyzerを作成する
// serverURL が空の場合はOllamaクライアントのデフォルト（localhost）を使う
func NewOllamaAnalyzer(serverURL, model string, timeout time.Duration) (*OllamaAnalyzer, error) {
	if model == "" {
		model = DefaultOllamaModel
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaAnalyzer{
		llm:     llm,
		timeout: timeout,
	}, nil
}

// Analyze は関数ソースをレビューして提案リストを返す
func (a *OllamaAnalyzer) Analyze(ctx context.Context, source string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := llms.GenerateFromSinglePrompt(ctx, a.llm, reviewPrompt+source)
	if err != nil {
		return nil, analysis.NewProviderError(ProviderLocal, err)
	}

	return []string{result}, nil
}
