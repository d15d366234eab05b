package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/pkoukk/tiktoken-go"
)

// tokenGuardEncoding はトークン数見積もりに使うエンコーディング
const tokenGuardEncoding = "cl100k_base"

// ErrSourceTooLarge は抽出された関数がトークン予算を超えた場合のエラー
var ErrSourceTooLarge = errors.New("function source exceeds token budget")

// TokenCounter はテキストのトークン数を数える
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// TokenGuard はAnalyzer呼び出しの前段でトークン予算を検査するデコレータ
// 予算超過のソースをプロバイダに送らないための事前ガード
type TokenGuard struct {
	next      analysis.Analyzer
	counter   TokenCounter
	maxTokens int
	logger    *slog.Logger
}

// TokenGuardOption は TokenGuard のオプション設定
type TokenGuardOption func(*TokenGuard)

// WithTokenCounter はトークンカウンタを差し替える
func WithTokenCounter(counter TokenCounter) TokenGuardOption {
	return func(g *TokenGuard) {
		g.counter = counter
	}
}

// WithTokenGuardLogger は TokenGuard にロガーを設定する
func WithTokenGuardLogger(logger *slog.Logger) TokenGuardOption {
	return func(g *TokenGuard) {
		g.logger = logger
	}
}

// NewTokenGuard は新しい TokenGuard を作成する
// maxTokens が 0 以下の場合は検査を行わず素通しする
func NewTokenGuard(next analysis.Analyzer, maxTokens int, opts ...TokenGuardOption) (*TokenGuard, error) {
	g := &TokenGuard{
		next:      next,
		maxTokens: maxTokens,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.counter == nil {
		enc, err := tiktoken.GetEncoding(tokenGuardEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load token encoding: %w", err)
		}
		g.counter = &tiktokenCounter{enc: enc}
	}

	return g, nil
}

// Analyze はトークン数を検査してから後続のAnalyzerに委譲する
func (g *TokenGuard) Analyze(ctx context.Context, source string) ([]string, error) {
	if g.maxTokens > 0 {
		count := g.counter.Count(source)
		if count > g.maxTokens {
			return nil, fmt.Errorf("%w: %d tokens (limit %d)", ErrSourceTooLarge, count, g.maxTokens)
		}
		g.logger.Debug("トークン数を確認しました", "tokens", count, "limit", g.maxTokens)
	}

	return g.next.Analyze(ctx, source)
}
