package llm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
)

// サポートする Analyzer プロバイダ名
const (
	ProviderLocal    = "local"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderRemote   = "remote"
)

// DefaultTimeout はAnalyzer呼び出しのデフォルトタイムアウト
const DefaultTimeout = 60 * time.Second

var (
	// ErrUnsupportedProvider は未知のプロバイダ名が指定された場合のエラー
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")

	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("LLM API key not set")
)

// reviewPrompt は抽出した関数ソースに前置するレビュー指示
const reviewPrompt = "You are a code reviewer. Review the following function and suggest concrete improvements. Keep each suggestion short and actionable.\n\n"

// Config は Analyzer プロバイダの設定
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	OllamaHost string
	RemoteURL  string
	Timeout    time.Duration
}

// NewAnalyzer は設定に応じた analysis.Analyzer を作成する
// プロバイダは起動時に一度だけ選択される（Strategyパターン）
func NewAnalyzer(cfg Config, logger *slog.Logger) (analysis.Analyzer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case ProviderLocal:
		return NewOllamaAnalyzer(cfg.OllamaHost, cfg.Model, cfg.Timeout)
	case ProviderOpenAI:
		return NewOpenAIAnalyzer(cfg.APIKey, cfg.Model, cfg.Timeout)
	case ProviderDeepSeek:
		return NewDeepSeekAnalyzer(cfg.APIKey, cfg.Model, cfg.Timeout)
	case ProviderRemote:
		return NewRemoteAnalyzer(cfg.RemoteURL, cfg.Timeout, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
