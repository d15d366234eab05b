package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shutdownTimeout はグレースフルシャットダウンの待機時間
const shutdownTimeout = 10 * time.Second

// NewAnalysisServer はCode AnalysisサービスのHTTPエンジンを構築する
func NewAnalysisServer(h *AnalysisHandler) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", h.Root)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	AnalyzeRouter(engine.Group("/analyze"), h)

	return engine, nil
}

// NewLLMServer はLLMサービスのHTTPエンジンを構築する
func NewLLMServer(h *LLMHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", h.Root)
	LLMRouter(engine.Group(""), h)

	return engine
}

// Run はHTTPサーバを起動し、コンテキストのキャンセルで停止する
func Run(ctx context.Context, engine *gin.Engine, port int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("HTTPサーバを起動しました", "addr", srv.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("HTTPサーバを停止します")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
