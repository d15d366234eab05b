package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkspace(t *testing.T, files map[string]string) Workspace {
	t.Helper()

	dir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}

	return Workspace{Path: dir}
}

func mustRef(t *testing.T, ref string) FunctionRef {
	t.Helper()

	parsed, err := ParseFunctionRef(ref)
	require.NoError(t, err)
	return parsed
}

func TestLocator_ExtractsSingleFunction(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"pkg/mod.py": "def add(a, b):\n    return a + b\n\ndef sub(a, b):\n    return a - b\n",
	})

	source, err := locator.Locate(workspace, mustRef(t, "pkg.mod.add"))
	require.NoError(t, err)

	assert.Equal(t, "def add(a, b):\n    return a + b", source)
}

func TestLocator_KeepsInteriorBlankLines(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def calc(x):\n    a = x * 2\n\n    return a\n\ndef other():\n    pass\n",
	})

	source, err := locator.Locate(workspace, mustRef(t, "mod.calc"))
	require.NoError(t, err)

	assert.Equal(t, "def calc(x):\n    a = x * 2\n\n    return a", source)
}

func TestLocator_FirstMatchWins(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def dup():\n    return 1\n\ndef dup():\n    return 2\n",
	})

	source, err := locator.Locate(workspace, mustRef(t, "mod.dup"))
	require.NoError(t, err)

	assert.Equal(t, "def dup():\n    return 1", source)
}

func TestLocator_IgnoresNestedFunctions(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def outer():\n    def inner():\n        return 1\n    return inner\n",
	})

	_, err = locator.Locate(workspace, mustRef(t, "mod.inner"))
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestLocator_FunctionAtEndOfFile(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def first():\n    return 1\n\ndef last(x):\n    return x\n",
	})

	source, err := locator.Locate(workspace, mustRef(t, "mod.last"))
	require.NoError(t, err)

	assert.Equal(t, "def last(x):\n    return x", source)
}

func TestLocator_ExactNameMatch(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def square_all(xs):\n    return [x * x for x in xs]\n",
	})

	// 前方一致では square_all が誤って一致してしまう
	_, err = locator.Locate(workspace, mustRef(t, "mod.square"))
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestLocator_ModuleNotFound(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def add(a, b):\n    return a + b\n",
	})

	_, err = locator.Locate(workspace, mustRef(t, "missing.add"))
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestLocator_FunctionNotFound(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)

	workspace := writeWorkspace(t, map[string]string{
		"mod.py": "def add(a, b):\n    return a + b\n",
	})

	_, err = locator.Locate(workspace, mustRef(t, "mod.missing"))
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestNewLocator_ResolvesExtensionFromLanguage(t *testing.T) {
	locator, err := NewLocator("Python")
	require.NoError(t, err)
	assert.Equal(t, ".py", locator.Extension())
}

func TestNewLocator_UnknownLanguage(t *testing.T) {
	_, err := NewLocator("NoSuchLanguage")
	assert.Error(t, err)
}
