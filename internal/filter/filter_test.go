package filter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/printproject/internal/filter"
	"github.com/temirov/printproject/internal/types"
)

func baseConfig(root string) types.ScanConfig {
	return types.ScanConfig{
		Root:              root,
		SkipDirs:          types.NewStringSet("node_modules"),
		IncludeExtensions: types.NewStringSet(),
		ExcludeExtensions: types.NewStringSet("log"),
		IgnoreFiles:       types.NewStringSet("secret.env"),
		ForceIncludeFiles: types.NewStringSet(),
		OnlyIncludeFiles:  types.NewStringSet(),
		TreeExcludeDirs:   types.NewStringSet(".git"),
		TrustedExtensions: types.NewStringSet(),
		MaxFileSize:       100,
	}
}

func newEngine(t *testing.T, config types.ScanConfig) *filter.Engine {
	t.Helper()
	engine, engineError := filter.New(config)
	require.NoError(t, engineError)
	return engine
}

func TestShouldProcessDecisionOrder(t *testing.T) {
	root := t.TempDir()
	config := baseConfig(root)
	config.IncludeExtensions = types.NewStringSet("py", "txt", "log")
	engine := newEngine(t, config)

	testCases := []struct {
		name               string
		relativePath       string
		size               int64
		wantProcess        bool
		wantClassification types.Classification
		wantReason         string
	}{
		{name: "plain include", relativePath: "src/a.py", size: 10, wantProcess: true},
		{name: "ignored file", relativePath: "config/secret.env", size: 10, wantClassification: types.ClassificationExcluded, wantReason: "Excluded file: secret.env"},
		{name: "excluded extension beats inclusion", relativePath: "debug.log", size: 10, wantClassification: types.ClassificationExcluded, wantReason: "Excluded extension: .log"},
		{name: "extension not included", relativePath: "main.go", size: 10, wantClassification: types.ClassificationExcluded, wantReason: "Extension not in inclusion list: .go"},
		{name: "extension compared case insensitively", relativePath: "README.TXT", size: 10, wantProcess: true},
		{name: "too large", relativePath: "big.txt", size: 2048, wantClassification: types.ClassificationTooLarge, wantReason: "Size exceeds limit (2.0 KB)"},
		{name: "size at limit", relativePath: "edge.txt", size: 100, wantProcess: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			decision := engine.ShouldProcess(testCase.relativePath, testCase.size)
			assert.Equal(t, testCase.wantProcess, decision.Process)
			if !testCase.wantProcess {
				assert.Equal(t, testCase.wantClassification, decision.Classification)
				assert.Equal(t, testCase.wantReason, decision.Reason)
			}
			assert.False(t, decision.SkipDetection)
		})
	}
}

func TestShouldProcessExclusiveMode(t *testing.T) {
	config := baseConfig(t.TempDir())
	config.OnlyIncludeFiles = types.NewStringSet("a.py")
	config.ForceIncludeFiles = types.NewStringSet("b.py")
	config.IncludeExtensions = types.NewStringSet("txt")
	config.ExcludeExtensions = types.NewStringSet("py")
	config.MaxFileSize = 1
	engine := newEngine(t, config)

	only := engine.ShouldProcess("deep/a.py", 5000)
	assert.True(t, only.Process)
	assert.True(t, only.SkipDetection)
	assert.False(t, only.ForceIncluded)

	for _, relativePath := range []string{"b.py", "c.txt"} {
		decision := engine.ShouldProcess(relativePath, 0)
		assert.False(t, decision.Process, relativePath)
		assert.Equal(t, filter.ReasonNotOnlyIncluded, decision.Reason)
		assert.Equal(t, types.ClassificationExcluded, decision.Classification)
	}
}

func TestShouldProcessForceInclude(t *testing.T) {
	config := baseConfig(t.TempDir())
	config.ForceIncludeFiles = types.NewStringSet("debug.log", "secret.env")
	config.IncludeExtensions = types.NewStringSet("py")
	engine := newEngine(t, config)

	for _, relativePath := range []string{"debug.log", "nested/secret.env"} {
		decision := engine.ShouldProcess(relativePath, 1<<20)
		assert.True(t, decision.Process, relativePath)
		assert.True(t, decision.ForceIncluded, relativePath)
		assert.True(t, decision.SkipDetection, relativePath)
	}
}

func TestDescendAndTreeRulesAreIndependent(t *testing.T) {
	engine := newEngine(t, baseConfig(t.TempDir()))

	assert.False(t, engine.ShouldDescend("node_modules"))
	assert.True(t, engine.ShouldDescend(".git"))
	assert.False(t, engine.ExcludedFromTree("node_modules"))
	assert.True(t, engine.ExcludedFromTree(".git"))
}

func TestShouldProcessGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.tmp\nbuild/\n"), 0o644))

	config := baseConfig(root)
	config.UseGitignore = true
	config.ForceIncludeFiles = types.NewStringSet("keep.tmp")
	engine := newEngine(t, config)

	assert.Equal(t, filter.ReasonGitignore, engine.ShouldProcess("scratch.tmp", 1).Reason)
	assert.Equal(t, filter.ReasonGitignore, engine.ShouldProcess("build/out.txt", 1).Reason)
	assert.True(t, engine.ShouldProcess("src/main.py", 1).Process)
	assert.True(t, engine.ShouldProcess("keep.tmp", 1).Process)

	config.UseGitignore = false
	assert.True(t, newEngine(t, config).ShouldProcess("scratch.tmp", 1).Process)
}

func TestNewWithoutGitignoreFile(t *testing.T) {
	config := baseConfig(t.TempDir())
	config.UseGitignore = true
	engine := newEngine(t, config)
	assert.True(t, engine.ShouldProcess("anything.txt", 1).Process)
}
