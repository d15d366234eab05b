package container

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/amirrhe/code-review-system/internal/infra/git"
	"github.com/amirrhe/code-review-system/internal/infra/llm"
	"github.com/amirrhe/code-review-system/internal/infra/memory"
	"github.com/amirrhe/code-review-system/internal/platform/config"
)

// Container はアプリケーションの依存関係を保持する
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *memory.JobStore
	Fetcher  *git.Fetcher
	Locator  *analysis.Locator
	Analyzer analysis.Analyzer
	Service  *analysis.Service
}

// New は設定に基づいてすべての依存関係を初期化する
func New(logger *slog.Logger, cfg *config.Config) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store := memory.NewJobStore(logger)
	fetcher := git.NewFetcher(cfg.Git.CloneDir, cfg.Git.SSHKeyPath, cfg.Git.SSHPassword, logger)

	locator, err := analysis.NewLocator(cfg.Analysis.Language, analysis.WithLocatorLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create function locator: %w", err)
	}

	analyzer, err := NewAnalyzerChain(cfg, logger)
	if err != nil {
		return nil, err
	}

	service := analysis.NewService(store, fetcher, locator, analyzer,
		analysis.WithServiceLogger(logger),
		analysis.WithMaxConcurrentFetches(int64(cfg.Analysis.MaxConcurrentFetches)),
		analysis.WithFetchTimeout(time.Duration(cfg.Analysis.FetchTimeoutSeconds)*time.Second),
	)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Fetcher:  fetcher,
		Locator:  locator,
		Analyzer: analyzer,
		Service:  service,
	}, nil
}

// NewAnalyzerChain はプロバイダ本体にトークンガードと提案キャッシュを重ねた
// Analyzer を構築する。LLMサービス単体起動時にも同じチェーンを使う
func NewAnalyzerChain(cfg *config.Config, logger *slog.Logger) (analysis.Analyzer, error) {
	base, err := llm.NewAnalyzer(llm.Config{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		OllamaHost: cfg.LLM.OllamaHost,
		RemoteURL:  cfg.LLM.RemoteURL,
		Timeout:    time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	guarded, err := llm.NewTokenGuard(base, cfg.LLM.MaxSourceTokens, llm.WithTokenGuardLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create token guard: %w", err)
	}

	cached, err := llm.NewCachedAnalyzer(guarded, cfg.LLM.CacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
	}

	return cached, nil
}
