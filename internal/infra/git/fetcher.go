package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	giturls "github.com/whilp/git-urls"
)

// Fetcher は go-git を使った analysis.Fetcher 実装
// ジョブごとに <cloneBaseDir>/<jobID> へリポジトリをクローンする
type Fetcher struct {
	cloneBaseDir string
	sshKeyPath   string
	sshPassword  string
	logger       *slog.Logger
}

// NewFetcher は新しい Fetcher を作成する
func NewFetcher(cloneBaseDir, sshKeyPath, sshPassword string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		cloneBaseDir: cloneBaseDir,
		sshKeyPath:   sshKeyPath,
		sshPassword:  sshPassword,
		logger:       logger,
	}
}

// SourceName はリポジトリ参照からログ・表示用のソース名を導出する
// 例: git@github.com:user/repo.git -> github.com/user/repo
func (f *Fetcher) SourceName(repoRef string) string {
	u, err := giturls.Parse(repoRef)
	if err != nil {
		return strings.TrimSuffix(repoRef, ".git")
	}

	hostname := u.Hostname()
	if hostname == "" {
		hostname = u.Host
	}

	path := strings.TrimPrefix(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")

	return filepath.Join(hostname, path)
}

// Fetch はリポジトリをワークスペースとして実体化する
// 単一試行であり、失敗時は中途半端なワークスペースを残さない
func (f *Fetcher) Fetch(ctx context.Context, repoRef, jobID string) (analysis.Workspace, error) {
	if _, err := giturls.Parse(repoRef); err != nil {
		return analysis.Workspace{}, analysis.NewFetchError(repoRef, fmt.Errorf("invalid repository reference: %w", err))
	}

	auth, err := f.sshAuth()
	if err != nil {
		return analysis.Workspace{}, analysis.NewFetchError(repoRef, err)
	}

	destDir := filepath.Join(f.cloneBaseDir, jobID)

	f.logger.Info("リポジトリをクローンします", "repoRef", repoRef, "dest", destDir)

	_, err = gogit.PlainCloneContext(ctx, destDir, false, &gogit.CloneOptions{
		URL:  repoRef,
		Auth: auth,
	})
	if err != nil {
		if rmErr := os.RemoveAll(destDir); rmErr != nil {
			f.logger.Warn("クローン失敗後のワークスペース削除に失敗しました", "dest", destDir, "error", rmErr)
		}
		return analysis.Workspace{}, analysis.NewFetchError(repoRef, err)
	}

	return analysis.Workspace{Path: destDir}, nil
}

// sshAuth はSSH鍵が設定されていれば認証情報を構築する
func (f *Fetcher) sshAuth() (*ssh.PublicKeys, error) {
	if f.sshKeyPath == "" {
		return nil, nil
	}

	if _, err := os.Stat(f.sshKeyPath); os.IsNotExist(err) {
		return nil, nil
	}

	auth, err := ssh.NewPublicKeysFromFile("git", f.sshKeyPath, f.sshPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}

	return auth, nil
}
