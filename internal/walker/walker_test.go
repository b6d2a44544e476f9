package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type globExcluder []string

func (g globExcluder) IsPathExcluded(path string) bool {
	for _, pattern := range g {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestWalk_ReturnsFilesInLexicalOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.py":       "",
		"a.py":       "",
		"sub/c.py":   "",
		"sub/aa.py":  "",
	})

	files, err := Walk(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, files, 4)
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1], files[i])
	}
}

func TestWalk_SkipsHiddenDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":          "",
		".venv/lib.py":     "",
		".git/config":      "",
	})

	files, err := Walk(context.Background(), root, nil)
	require.NoError(t, err)
	for _, f := range files {
		assert.NotContains(t, f, ".venv")
		assert.NotContains(t, f, ".git")
	}
	assert.Len(t, files, 1)
}

func TestWalk_PrunesExcludedDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":           "",
		"vendor/lib.py":     "",
		"vendor/sub/dep.py": "",
	})

	files, err := Walk(context.Background(), root, globExcluder{"vendor"})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestWalk_ExcludesIndividualFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":   "",
		"models_pb2.py": "",
	})

	files, err := Walk(context.Background(), root, globExcluder{"*_pb2.py"})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestWalk_CancelledContext(t *testing.T) {
	root := writeTree(t, map[string]string{"main.py": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, root, nil)
	assert.Error(t, err)
}
