package commands

import (
	"context"

	"github.com/amirrhe/code-review-system/internal/infra/httpapi"
	"github.com/urfave/cli/v3"
)

// ServerStartAction はCode AnalysisサービスのHTTPサーバを起動する
func ServerStartAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd.String("env"))
	if err != nil {
		return err
	}

	port := int(cmd.Int("port"))
	if port == 0 {
		port = appCtx.Config.Server.Port
	}

	metrics := httpapi.NewMetrics(nil)
	handler := httpapi.NewAnalysisHandler(appCtx.Container.Service, metrics)

	engine, err := httpapi.NewAnalysisServer(handler)
	if err != nil {
		return err
	}

	return httpapi.Run(ctx, engine, port, appCtx.Logger)
}
