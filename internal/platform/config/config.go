package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Git設定
	Git GitConfig

	// Analyzerプロバイダ設定
	LLM LLMConfig

	// 解析・抽出設定
	Analysis AnalysisConfig

	// Code Analysisサービスの設定
	Server ServerConfig

	// LLMサービスの設定
	LLMServer ServerConfig
}

// GitConfig はリポジトリ取得の設定
type GitConfig struct {
	CloneDir    string
	SSHKeyPath  string
	SSHPassword string // SSH秘密鍵のパスフレーズ
}

// LLMConfig はAnalyzerプロバイダの設定
type LLMConfig struct {
	Provider        string // "local", "openai", "deepseek", "remote"
	APIKey          string
	Model           string
	OllamaHost      string
	RemoteURL       string // remoteプロバイダが委譲するLLMサービスのURL
	TimeoutSeconds  int
	MaxSourceTokens int // 0以下で無制限
	CacheSize       int
}

// AnalysisConfig はジョブ実行と関数抽出の設定
type AnalysisConfig struct {
	Language             string
	MaxConcurrentFetches int
	FetchTimeoutSeconds  int
}

// ServerConfig はHTTPサーバの設定
type ServerConfig struct {
	Port int
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Git: GitConfig{
			CloneDir:    getEnv("GIT_CLONE_DIR", filepath.Join(os.TempDir(), "code-review", "workspaces")),
			SSHKeyPath:  getEnv("GIT_SSH_KEY_PATH", ""),
			SSHPassword: getEnv("GIT_SSH_PASSWORD", ""),
		},
		LLM: LLMConfig{
			Provider:        getEnv("LLM_PROVIDER", "local"),
			APIKey:          getEnv("LLM_API_KEY", ""),
			Model:           getEnv("LLM_MODEL", ""),
			OllamaHost:      getEnv("OLLAMA_HOST", ""),
			RemoteURL:       getEnv("LLM_SERVICE_URL", "http://localhost:8000/analyze"),
			TimeoutSeconds:  getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
			MaxSourceTokens: getEnvAsInt("LLM_MAX_SOURCE_TOKENS", 4096),
			CacheSize:       getEnvAsInt("LLM_CACHE_SIZE", 128),
		},
		Analysis: AnalysisConfig{
			Language:             getEnv("ANALYSIS_LANGUAGE", "Python"),
			MaxConcurrentFetches: getEnvAsInt("ANALYSIS_MAX_CONCURRENT_FETCHES", 4),
			FetchTimeoutSeconds:  getEnvAsInt("ANALYSIS_FETCH_TIMEOUT_SECONDS", 600),
		},
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		LLMServer: ServerConfig{
			Port: getEnvAsInt("LLM_SERVER_PORT", 8000),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
