package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedAnalyzer は同一ソースに対する提案をLRUキャッシュするデコレータ
// キーはソーステキストのSHA-256。プロバイダ呼び出しのコスト削減が目的で、
// ジョブテーブルと異なりこちらは追い出しされてよい
type CachedAnalyzer struct {
	next   analysis.Analyzer
	cache  *lru.Cache[string, []string]
	logger *slog.Logger
}

// NewCachedAnalyzer は新しい CachedAnalyzer を作成する
func NewCachedAnalyzer(next analysis.Analyzer, size int, logger *slog.Logger) (*CachedAnalyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
	}

	return &CachedAnalyzer{
		next:   next,
		cache:  cache,
		logger: logger,
	}, nil
}

// Analyze はキャッシュヒット時は保存済みの提案を返し、ミス時のみ委譲する
func (a *CachedAnalyzer) Analyze(ctx context.Context, source string) ([]string, error) {
	key := cacheKey(source)

	if cached, ok := a.cache.Get(key); ok {
		a.logger.Debug("提案キャッシュにヒットしました", "key", key)
		return slices.Clone(cached), nil
	}

	suggestions, err := a.next.Analyze(ctx, source)
	if err != nil {
		return nil, err
	}

	a.cache.Add(key, slices.Clone(suggestions))

	return suggestions, nil
}

func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
