package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirrhe/code-review-system/cmd/code-review/commands"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "code-review",
		Usage: "リポジトリから関数を抽出してLLMレビューを行うシステム",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Code Analysisサービス関連コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "Code AnalysisサービスのHTTPサーバを起動",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.IntFlag{
								Name:  "port",
								Usage: "HTTPポート（省略時は環境変数またはデフォルトの8080）",
							},
						},
						Action: commands.ServerStartAction,
					},
				},
			},
			{
				Name:  "llm",
				Usage: "LLMサービス関連コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "LLMサービスのHTTPサーバを起動",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.IntFlag{
								Name:  "port",
								Usage: "HTTPポート（省略時は環境変数またはデフォルトの8000）",
							},
						},
						Action: commands.LLMStartAction,
					},
				},
			},
			{
				Name:  "analyze",
				Usage: "解析コマンド",
				Commands: []*cli.Command{
					{
						Name:  "run",
						Usage: "リポジトリを取得して関数のレビュー提案を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "url",
								Usage:    "GitリポジトリURL",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "function",
								Usage:    "関数参照（module.path.function形式）",
								Required: true,
							},
						},
						Action: commands.AnalyzeRunAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
