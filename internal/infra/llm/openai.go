package llm

import (
	"context"
	"errors"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	// DefaultOpenAIModel はOpenAIプロバイダのデフォルトモデル
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultDeepSeekModel はDeepSeekプロバイダのデフォルトモデル
	DefaultDeepSeekModel = "deepseek-chat"

	// deepSeekBaseURL はDeepSeekのOpenAI互換エンドポイント
	deepSeekBaseURL = "https://api.deepseek.com"
)

// OpenAIAnalyzer はChat Completions APIを使う analysis.Analyzer 実装
// DeepSeekはOpenAI互換プロトコルを話すため、ベースURLの差し替えで共用する
type OpenAIAnalyzer struct {
	client   openai.Client
	provider string
	model    string
	timeout  time.Duration
}

// NewOpenAIAnalyzer はOpenAI APIを使うAnalyzerを作成する
func NewOpenAIAnalyzer(apiKey, model string, timeout time.Duration) (*OpenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIAnalyzer{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		provider: ProviderOpenAI,
		model:    model,
		timeout:  timeout,
	}, nil
}

// NewDeepSeekAnalyzer はDeepSeek APIを使うAnalyzerを作成する
func NewDeepSeekAnalyzer(apiKey, model string, timeout time.Duration) (*OpenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultDeepSeekModel
	}

	return &OpenAIAnalyzer{
		client:   openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(deepSeekBaseURL)),
		provider: ProviderDeepSeek,
		model:    model,
		timeout:  timeout,
	}, nil
}

// Analyze は関数ソースをレビューして提案リストを返す
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, source string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(reviewPrompt + source),
		},
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, analysis.NewProviderError(a.provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, analysis.NewProviderError(a.provider, errors.New("completion returned no choices"))
	}

	return []string{resp.Choices[0].Message.Content}, nil
}
