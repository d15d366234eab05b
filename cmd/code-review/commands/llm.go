package commands

import (
	"context"
	"fmt"

	"github.com/amirrhe/code-review-system/internal/infra/httpapi"
	"github.com/amirrhe/code-review-system/internal/platform/config"
	"github.com/amirrhe/code-review-system/internal/platform/container"
	"github.com/amirrhe/code-review-system/internal/platform/logger"
	"github.com/urfave/cli/v3"
)

// LLMStartAction はLLMサービスのHTTPサーバを起動する
// Code Analysisサービスとは独立したプロセスとして動作する
func LLMStartAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	appLogger := logger.New(logger.DefaultConfig())

	analyzer, err := container.NewAnalyzerChain(cfg, appLogger)
	if err != nil {
		return err
	}

	port := int(cmd.Int("port"))
	if port == 0 {
		port = cfg.LLMServer.Port
	}

	engine := httpapi.NewLLMServer(httpapi.NewLLMHandler(analyzer))

	return httpapi.Run(ctx, engine, port, appLogger)
}
