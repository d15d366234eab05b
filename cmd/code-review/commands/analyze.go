package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/urfave/cli/v3"
)

// pollInterval はジョブ完了待ちのポーリング間隔
const pollInterval = 500 * time.Millisecond

// AnalyzeRunAction はクローンから提案表示までを一度に実行する
// ジョブテーブルはプロセス内にあるため、CLIでは開始と抽出を1プロセスで行う
func AnalyzeRunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd.String("env"))
	if err != nil {
		return err
	}

	repoURL := cmd.String("url")
	functionRef := cmd.String("function")
	service := appCtx.Container.Service

	jobID, err := service.Start(ctx, repoURL)
	if err != nil {
		return fmt.Errorf("ジョブの開始に失敗: %w", err)
	}

	appCtx.Logger.Info("リポジトリの取得を待機しています", "jobID", jobID)

	job, err := waitForJob(ctx, service, jobID)
	if err != nil {
		return err
	}
	if job.Status == analysis.JobStatusFailed {
		return fmt.Errorf("リポジトリの取得に失敗: %s", job.ErrorDetail)
	}

	suggestions, err := service.Extract(ctx, jobID, functionRef)
	if err != nil {
		return fmt.Errorf("関数の解析に失敗: %w", err)
	}

	fmt.Printf("Suggestions for %s:\n", functionRef)
	for i, suggestion := range suggestions {
		fmt.Printf("%d. %s\n", i+1, suggestion)
	}

	return nil
}

// waitForJob はジョブが終端状態になるまでポーリングする
func waitForJob(ctx context.Context, service *analysis.Service, jobID string) (*analysis.Job, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		job, err := service.Status(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("ジョブ状態の取得に失敗: %w", err)
		}
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.New("ジョブの完了前に中断されました")
		case <-ticker.C:
		}
	}
}
