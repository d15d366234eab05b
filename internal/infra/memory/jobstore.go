package memory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/google/uuid"
)

// JobStore は analysis.JobStore のプロセス内実装
// ジョブはプロセスのライフタイムの間保持され、削除されない（TTL/GCは非対応）
type JobStore struct {
	mu     sync.RWMutex
	jobs   map[string]*analysis.Job
	logger *slog.Logger
}

// NewJobStore は新しい JobStore を作成する
func NewJobStore(logger *slog.Logger) *JobStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobStore{
		jobs:   make(map[string]*analysis.Job),
		logger: logger,
	}
}

// CreateJob は一意なIDを採番して pending 状態のジョブを登録する
func (s *JobStore) CreateJob(repoRef string) *analysis.Job {
	job := &analysis.Job{
		ID:        uuid.NewString(),
		RepoRef:   repoRef,
		Status:    analysis.JobStatusPending,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return copyJob(job)
}

// MarkReady はジョブを ready に遷移させ、ワークスペースを関連付ける
func (s *JobStore) MarkReady(jobID string, workspace analysis.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		s.logger.Warn("未知のジョブIDに対する ready 遷移を無視します", "jobID", jobID)
		return
	}
	if job.Status.Terminal() {
		s.logger.Warn("終端状態のジョブに対する ready 遷移を無視します", "jobID", jobID, "status", job.Status)
		return
	}

	job.Status = analysis.JobStatusReady
	job.Workspace = &analysis.Workspace{Path: workspace.Path}
}

// MarkFailed はジョブを failed に遷移させ、エラー詳細を記録する
func (s *JobStore) MarkFailed(jobID string, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		s.logger.Warn("未知のジョブIDに対する failed 遷移を無視します", "jobID", jobID)
		return
	}
	if job.Status.Terminal() {
		s.logger.Warn("終端状態のジョブに対する failed 遷移を無視します", "jobID", jobID, "status", job.Status)
		return
	}

	job.Status = analysis.JobStatusFailed
	job.ErrorDetail = detail
}

// Get はジョブのコピーを返す。存在しない場合は analysis.ErrJobNotFound
func (s *JobStore) Get(jobID string) (*analysis.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, analysis.ErrJobNotFound
	}

	return copyJob(job), nil
}

// copyJob は読み取り側にロック外で安全に渡せるコピーを作る
func copyJob(job *analysis.Job) *analysis.Job {
	c := *job
	if job.Workspace != nil {
		ws := *job.Workspace
		c.Workspace = &ws
	}
	return &c
}
