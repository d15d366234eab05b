package analysis

import (
	"path/filepath"
	"strings"
	"time"
)

// JobStatus はジョブの状態を表す
type JobStatus string

const (
	// JobStatusPending はクローン処理が完了していない状態
	JobStatusPending JobStatus = "pending"
	// JobStatusReady はワークスペースが利用可能な状態
	JobStatusReady JobStatus = "ready"
	// JobStatusFailed はクローン処理が失敗した状態
	JobStatusFailed JobStatus = "failed"
)

// Terminal は状態が終端（これ以上遷移しない）かどうかを返す
func (s JobStatus) Terminal() bool {
	return s == JobStatusReady || s == JobStatusFailed
}

// Workspace はクローン済みリポジトリのスナップショットを表す
type Workspace struct {
	Path string
}

// Job はリポジトリ取得ジョブを表す
// ステータスは pending -> ready または pending -> failed に一度だけ遷移する
type Job struct {
	ID          string     `json:"jobID"`
	RepoRef     string     `json:"repoRef"`
	Status      JobStatus  `json:"status"`
	Workspace   *Workspace `json:"-"`
	ErrorDetail string     `json:"errorDetail,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FunctionRef はドット区切りの関数参照を表す
// 例: "utils.helpers.square" -> モジュールパス utils/helpers、関数名 square
type FunctionRef struct {
	Raw        string
	ModulePath []string
	Name       string
}

// ParseFunctionRef は "module.path.function" 形式の文字列を解析する
// 最後のセグメントが関数名、それ以外がモジュールパスとなる
func ParseFunctionRef(ref string) (FunctionRef, error) {
	segments := strings.Split(ref, ".")
	if len(segments) < 2 {
		return FunctionRef{}, ErrInvalidFunctionRef
	}
	for _, seg := range segments {
		if seg == "" {
			return FunctionRef{}, ErrInvalidFunctionRef
		}
	}

	return FunctionRef{
		Raw:        ref,
		ModulePath: segments[:len(segments)-1],
		Name:       segments[len(segments)-1],
	}, nil
}

// FilePath はモジュールパスをワークスペース相対のファイルパスに変換する
func (r FunctionRef) FilePath(ext string) string {
	return filepath.Join(r.ModulePath...) + ext
}
