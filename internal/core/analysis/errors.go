package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound は存在しないジョブIDが指定された場合に返されます
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotReady はクローン処理が完了していないジョブに対して抽出を要求した場合に返されます
	ErrJobNotReady = errors.New("job not ready")

	// ErrInvalidFunctionRef は関数参照の形式が不正な場合に返されます
	ErrInvalidFunctionRef = errors.New("function reference must be in the format 'module.path.function'")

	// ErrModuleNotFound はモジュールパスに対応するファイルが存在しない場合に返されます
	ErrModuleNotFound = errors.New("module not found")

	// ErrFunctionNotFound は対象ファイル内に関数定義が見つからない場合に返されます
	ErrFunctionNotFound = errors.New("function not found")
)

// FetchError はリポジトリ取得時の失敗を表します
// 非同期境界を越えて呼び出し元には伝播せず、ジョブレコードに記録されます
type FetchError struct {
	RepoRef string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: failed to materialize repository %s: %s", e.RepoRef, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError は新しい FetchError を作成します
func NewFetchError(repoRef string, err error) *FetchError {
	return &FetchError{RepoRef: repoRef, Err: err}
}

// JobFailedError はクローンに失敗したジョブに対する抽出要求を表します
// 元の FetchError の詳細を保持し、再試行しても同じ結果になることを示します
type JobFailedError struct {
	JobID  string
	Detail string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Detail)
}

// ProviderError はAnalyzer呼び出しの失敗を表します
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError は新しい ProviderError を作成します
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
