package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxConcurrentFetches は同時に実行するクローン処理の上限
	DefaultMaxConcurrentFetches = 4

	// DefaultFetchTimeout はクローン処理1回あたりのタイムアウト
	DefaultFetchTimeout = 10 * time.Minute
)

// Service はジョブのライフサイクルと関数抽出を調整するオーケストレータ
// ジョブごとの状態遷移 pending -> ready | failed は JobStore が保証する
type Service struct {
	store        JobStore
	fetcher      Fetcher
	locator      FunctionLocator
	analyzer     Analyzer
	sem          *semaphore.Weighted
	fetchTimeout time.Duration
	logger       *slog.Logger
}

type serviceOptions struct {
	maxConcurrentFetches int64
	fetchTimeout         time.Duration
	logger               *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*serviceOptions)

// WithServiceLogger は Service にロガーを設定する
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithMaxConcurrentFetches は同時クローン数の上限を設定する
func WithMaxConcurrentFetches(n int64) ServiceOption {
	return func(o *serviceOptions) {
		if n > 0 {
			o.maxConcurrentFetches = n
		}
	}
}

// WithFetchTimeout はクローン処理のタイムアウトを設定する
func WithFetchTimeout(d time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// NewService は新しい Service を作成する
func NewService(store JobStore, fetcher Fetcher, locator FunctionLocator, analyzer Analyzer, opts ...ServiceOption) *Service {
	options := serviceOptions{
		maxConcurrentFetches: DefaultMaxConcurrentFetches,
		fetchTimeout:         DefaultFetchTimeout,
		logger:               slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Service{
		store:        store,
		fetcher:      fetcher,
		locator:      locator,
		analyzer:     analyzer,
		sem:          semaphore.NewWeighted(options.maxConcurrentFetches),
		fetchTimeout: options.fetchTimeout,
		logger:       options.logger,
	}
}

// Start はジョブを登録し、クローン処理を非同期に開始してジョブIDを返す
// ネットワークI/Oを待たずに即座に返る。クローンの成否は後続の
// Extract / Status で観測する
func (s *Service) Start(ctx context.Context, repoRef string) (string, error) {
	job := s.store.CreateJob(repoRef)

	s.logger.Info("リポジトリ取得ジョブを開始します", "jobID", job.ID, "repoRef", repoRef)

	// クローンはリクエストのライフサイクルから切り離して実行する
	fetchCtx := context.WithoutCancel(ctx)
	go s.runFetch(fetchCtx, job.ID, repoRef)

	return job.ID, nil
}

// runFetch はクローン処理を実行し、結果をジョブレコードに一度だけ書き戻す
func (s *Service) runFetch(ctx context.Context, jobID, repoRef string) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.store.MarkFailed(jobID, fmt.Sprintf("fetch queue unavailable: %s", err))
		return
	}
	defer s.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	workspace, err := s.fetcher.Fetch(ctx, repoRef, jobID)
	if err != nil {
		s.logger.Error("リポジトリの取得に失敗しました", "jobID", jobID, "repoRef", repoRef, "error", err)
		s.store.MarkFailed(jobID, err.Error())
		return
	}

	s.store.MarkReady(jobID, workspace)
	s.logger.Info("リポジトリの取得が完了しました", "jobID", jobID, "path", workspace.Path)
}

// Status はジョブの現在の状態を返す
func (s *Service) Status(ctx context.Context, jobID string) (*Job, error) {
	return s.store.Get(jobID)
}

// Extract はジョブのワークスペースから関数を抽出し、Analyzer の提案を返す
// ジョブが pending の場合は ErrJobNotReady、failed の場合は記録済みの
// 失敗詳細を持つ JobFailedError を返す
func (s *Service) Extract(ctx context.Context, jobID, functionRef string) ([]string, error) {
	ref, err := ParseFunctionRef(functionRef)
	if err != nil {
		return nil, err
	}

	job, err := s.store.Get(jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case JobStatusPending:
		return nil, fmt.Errorf("%w: %s", ErrJobNotReady, jobID)
	case JobStatusFailed:
		return nil, &JobFailedError{JobID: jobID, Detail: job.ErrorDetail}
	}

	source, err := s.locator.Locate(*job.Workspace, ref)
	if err != nil {
		return nil, err
	}

	s.logger.Info("関数を抽出しました", "jobID", jobID, "function", ref.Raw, "bytes", len(source))

	suggestions, err := s.analyzer.Analyze(ctx, source)
	if err != nil {
		return nil, err
	}

	return suggestions, nil
}
