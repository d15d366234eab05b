package analysis

import "context"

// Fetcher はリモートリポジトリをワークスペースとして実体化する
// 失敗は FetchError として返すこと。リトライは行わない（単一試行）
type Fetcher interface {
	Fetch(ctx context.Context, repoRef, jobID string) (Workspace, error)
}

// FunctionLocator はワークスペースから関数のソーステキストを抽出する
type FunctionLocator interface {
	Locate(workspace Workspace, ref FunctionRef) (string, error)
}

// Analyzer は関数のソーステキストから改善提案を生成する外部能力
// プロバイダ非依存。失敗は ProviderError として返すこと
type Analyzer interface {
	Analyze(ctx context.Context, source string) ([]string, error)
}
