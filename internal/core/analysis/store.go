package analysis

// JobStore はジョブレコードの永続化境界を表す
// 実装はプロセス内の同期化されたマップで、ジョブのライフサイクル全体を所有する
type JobStore interface {
	// CreateJob は一意なIDを採番し、pending 状態のジョブを登録して返す
	CreateJob(repoRef string) *Job

	// MarkReady はジョブを ready に遷移させ、ワークスペースを関連付ける
	// 未知のIDや終端状態のジョブに対する呼び出しはオーケストレーションの
	// 不変条件違反であり、実装はログに記録して無視する
	MarkReady(jobID string, workspace Workspace)

	// MarkFailed はジョブを failed に遷移させ、エラー詳細を記録する
	MarkFailed(jobID string, detail string)

	// Get はジョブを取得する。存在しない場合は ErrJobNotFound を返す
	Get(jobID string) (*Job, error)
}
