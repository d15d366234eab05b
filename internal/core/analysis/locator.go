package analysis

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// DefaultLanguage は抽出対象のデフォルト言語
const DefaultLanguage = "Python"

// Locator はワークスペース内の関数定義を字句的に抽出する
// 完全な構文解析は行わず、インデントで区切られたブロックを行単位で走査する。
// デコレータや複数行シグネチャは抽出範囲に含まれない（既知の制限）
type Locator struct {
	language string
	ext      string
	logger   *slog.Logger
}

// LocatorOption は Locator のオプション設定
type LocatorOption func(*Locator)

// WithLocatorLogger は Locator にロガーを設定する
func WithLocatorLogger(logger *slog.Logger) LocatorOption {
	return func(l *Locator) {
		l.logger = logger
	}
}

// NewLocator は言語名を指定して Locator を作成する
// ソースファイルの拡張子は enry の言語定義から解決する
func NewLocator(language string, opts ...LocatorOption) (*Locator, error) {
	if language == "" {
		language = DefaultLanguage
	}

	exts := enry.GetLanguageExtensions(language)
	if len(exts) == 0 {
		return nil, fmt.Errorf("no known file extension for language %q", language)
	}

	l := &Locator{
		language: language,
		ext:      exts[0],
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Extension は解決済みのソースファイル拡張子を返す
func (l *Locator) Extension() string {
	return l.ext
}

// Locate はワークスペースから関数定義のソーステキストを抽出する
// モジュールパスを相対ファイルパスに解決し、トップレベル（カラム0）の
// def 行を名前完全一致で探す。同名定義が複数ある場合は最初の一致を返す
func (l *Locator) Locate(workspace Workspace, ref FunctionRef) (string, error) {
	relPath := ref.FilePath(l.ext)
	fullPath := filepath.Join(workspace.Path, relPath)

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrModuleNotFound, relPath)
		}
		return "", fmt.Errorf("failed to read module file %s: %w", relPath, err)
	}

	// 拡張子ベースの解決なので、中身が別言語の場合は警告だけ残して続行する
	if detected := enry.GetLanguage(filepath.Base(fullPath), data); detected != "" && detected != l.language {
		l.logger.Warn("モジュールファイルの言語が想定と異なります",
			"path", relPath, "expected", l.language, "detected", detected)
	}

	source, err := l.scan(string(data), ref.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %s in %s", err, ref.Name, relPath)
	}

	return source, nil
}

// scan は関数定義の行範囲を特定してソーステキストを返す
func (l *Locator) scan(content, name string) (string, error) {
	defLine := regexp.MustCompile(`^def\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if defLine.MatchString(line) {
			start = i
			break
		}
	}
	if start == -1 {
		return "", ErrFunctionNotFound
	}

	// def 行に続く、空行またはインデントされた行までが関数本体。
	// 次のカラム0の非空行（次のトップレベル定義）で打ち切る
	end := start + 1
	for end < len(lines) {
		line := lines[end]
		if strings.TrimSpace(line) != "" && !isIndented(line) {
			break
		}
		end++
	}

	// 末尾の空行は関数本体に含めない
	for end > start+1 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return strings.Join(lines[start:end], "\n"), nil
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
