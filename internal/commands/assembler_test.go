package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/printproject/internal/commands"
	"github.com/temirov/printproject/internal/detect"
	"github.com/temirov/printproject/internal/filter"
	"github.com/temirov/printproject/internal/types"
)

var fixedClock = func() time.Time { return time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC) }

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func newScanConfig(root string) types.ScanConfig {
	return types.ScanConfig{
		Root:              root,
		SkipDirs:          types.NewStringSet(".git"),
		IncludeExtensions: types.NewStringSet(),
		ExcludeExtensions: types.NewStringSet(),
		IgnoreFiles:       types.NewStringSet(),
		ForceIncludeFiles: types.NewStringSet(),
		OnlyIncludeFiles:  types.NewStringSet(),
		TreeExcludeDirs:   types.NewStringSet(".git"),
		TrustedExtensions: types.NewStringSet("md"),
		LineNumbers:       true,
		IncludeTree:       true,
		IncludeSummary:    true,
		Detection:         detect.DefaultSettings(),
	}
}

func runAssembler(t *testing.T, config types.ScanConfig, options commands.AssemblerOptions) *types.ScanResult {
	t.Helper()
	engine, engineError := filter.New(config)
	require.NoError(t, engineError)
	detector := detect.NewDetector(config.TrustedExtensions, config.Detection)
	if options.Now == nil {
		options.Now = fixedClock
	}
	result, runError := commands.NewAssembler(config, engine, detector, options).Run(context.Background())
	require.NoError(t, runError)
	return result
}

func entriesByPath(result *types.ScanResult) map[string]types.FileEntry {
	entries := make(map[string]types.FileEntry, len(result.Entries))
	for _, entry := range result.Entries {
		entries[entry.RelativePath] = entry
	}
	return entries
}

func TestAssemblerIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "z/last.txt", "z\n")
	writeProjectFile(t, root, "a.txt", "a\n")
	writeProjectFile(t, root, "m/middle.txt", "m\n")
	writeProjectFile(t, root, "B.txt", "b\n")

	first := runAssembler(t, newScanConfig(root), commands.AssemblerOptions{})
	second := runAssembler(t, newScanConfig(root), commands.AssemblerOptions{})

	var order []string
	for _, entry := range first.Entries {
		order = append(order, entry.RelativePath)
	}
	assert.Equal(t, []string{"B.txt", "a.txt", "m/middle.txt", "z/last.txt"}, order)
	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, first.Tree, second.Tree)
	assert.Equal(t, time.Duration(0), first.Elapsed)
}

func TestAssemblerCollectsContentAndTotals(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeProjectFile(t, root, "empty.txt", "")

	result := runAssembler(t, newScanConfig(root), commands.AssemblerOptions{TokenCounter: runeCounter{}, TokenModel: "runes"})
	entries := entriesByPath(result)

	mainEntry := entries["main.go"]
	assert.Equal(t, types.ClassificationText, mainEntry.Classification)
	assert.Equal(t, 3, mainEntry.Lines)
	assert.Equal(t, detect.EncodingUTF8, mainEntry.Encoding)
	assert.Equal(t, "package main\n\nfunc main() {}\n", mainEntry.Content)
	assert.Equal(t, len("package main\n\nfunc main() {}\n"), mainEntry.Tokens)

	emptyEntry := entries["empty.txt"]
	assert.Equal(t, types.ClassificationText, emptyEntry.Classification)
	assert.Equal(t, 0, emptyEntry.Lines)

	assert.Equal(t, 2, result.Counts[types.ClassificationText])
	assert.Equal(t, 3, result.TotalLines)
	assert.Equal(t, mainEntry.Size, result.TotalBytes)
	assert.Equal(t, "runes", result.TokenModel)
	assert.Equal(t, filepath.Base(root), result.ProjectName)
}

func TestAssemblerExclusiveMode(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "a.py", "print('a')\n")
	writeProjectFile(t, root, "nested/a.py", "print('nested')\n")
	writeProjectFile(t, root, "b.py", "print('b')\n")
	writeProjectFile(t, root, "c.txt", "c\n")

	config := newScanConfig(root)
	config.OnlyIncludeFiles = types.NewStringSet("a.py")
	config.ForceIncludeFiles = types.NewStringSet("b.py")
	result := runAssembler(t, config, commands.AssemblerOptions{})

	var processed []string
	for _, entry := range result.Processed() {
		processed = append(processed, entry.RelativePath)
	}
	assert.Equal(t, []string{"a.py", "nested/a.py"}, processed)
	assert.Empty(t, result.ForceIncluded())
	assert.Equal(t, 2, result.SkippedFiles())
}

func TestAssemblerForceIncludeBeatsExcludedExtension(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "keep.log", "kept\n")
	writeProjectFile(t, root, "drop.log", "dropped\n")

	config := newScanConfig(root)
	config.ExcludeExtensions = types.NewStringSet("log")
	config.ForceIncludeFiles = types.NewStringSet("keep.log")
	result := runAssembler(t, config, commands.AssemblerOptions{})
	entries := entriesByPath(result)

	assert.Equal(t, types.ClassificationText, entries["keep.log"].Classification)
	assert.True(t, entries["keep.log"].ForceIncluded)
	assert.Equal(t, types.ClassificationExcluded, entries["drop.log"].Classification)
	assert.Equal(t, "Excluded extension: .log", entries["drop.log"].Reason)
	assert.Equal(t, []string{"keep.log"}, result.ForceIncluded())
}

func TestAssemblerSkipDirsAndTreeExclusionAreIndependent(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "vendor/lib.go", "package lib\n")
	writeProjectFile(t, root, "docs/guide.txt", "guide\n")

	config := newScanConfig(root)
	config.SkipDirs = types.NewStringSet("vendor")
	config.TreeExcludeDirs = types.NewStringSet("docs")
	result := runAssembler(t, config, commands.AssemblerOptions{})

	assert.Contains(t, result.Tree, "lib.go")
	assert.NotContains(t, result.Tree, "guide.txt")
	assert.Contains(t, result.Tree, "docs/")

	entries := entriesByPath(result)
	assert.Contains(t, entries, "docs/guide.txt")
	assert.NotContains(t, entries, "vendor/lib.go")
	assert.Equal(t, []string{"vendor"}, result.SkippedDirs)
}

func TestAssemblerTooLargeAndErrorAreDistinct(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "big.txt", string(make([]byte, 2048)))
	writeProjectFile(t, root, "small.txt", "ok\n")

	config := newScanConfig(root)
	config.MaxFileSize = 1024
	result := runAssembler(t, config, commands.AssemblerOptions{})
	entries := entriesByPath(result)

	assert.Equal(t, types.ClassificationTooLarge, entries["big.txt"].Classification)
	assert.Equal(t, "Size exceeds limit (2.0 KB)", entries["big.txt"].Reason)
	assert.Equal(t, types.ClassificationText, entries["small.txt"].Classification)

	if os.Geteuid() == 0 {
		return
	}
	unreadablePath := filepath.Join(root, "small.txt")
	require.NoError(t, os.Chmod(unreadablePath, 0o000))
	t.Cleanup(func() { _ = os.Chmod(unreadablePath, 0o644) })

	result = runAssembler(t, config, commands.AssemblerOptions{})
	entries = entriesByPath(result)
	assert.Equal(t, types.ClassificationError, entries["small.txt"].Classification)
	assert.Contains(t, entries["small.txt"].Reason, "Error: ")
	assert.Equal(t, types.ClassificationTooLarge, entries["big.txt"].Classification)
}

func TestAssemblerKeepsUnreadableDirectoriesOutOfFileTotals(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n")
	writeProjectFile(t, root, "private/secret.go", "package private\n")
	writeProjectFile(t, root, "data.bin", "\x00\x01binary")
	lockedDirectory := filepath.Join(root, "private")
	require.NoError(t, os.Chmod(lockedDirectory, 0o000))
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	result := runAssembler(t, newScanConfig(root), commands.AssemblerOptions{})

	require.Len(t, result.DirErrors, 1)
	assert.Equal(t, "private/", result.DirErrors[0].Path)
	assert.Contains(t, result.DirErrors[0].Reason, "Error: ")

	reasonTotal := 0
	for _, skipReason := range result.SkipReasons {
		assert.NotContains(t, skipReason.Paths, "private/")
		reasonTotal += len(skipReason.Paths)
	}
	assert.Equal(t, result.SkippedFiles(), reasonTotal)
	assert.Equal(t, 1, result.SkippedFiles())
}

func TestAssemblerBinaryAndTrustedExtension(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "data.bin", "\x00\x01\x02\x03binary")
	writeProjectFile(t, root, "notes.md", "\x00\x01notes")

	result := runAssembler(t, newScanConfig(root), commands.AssemblerOptions{})
	entries := entriesByPath(result)

	assert.Equal(t, types.ClassificationBinary, entries["data.bin"].Classification)
	assert.Equal(t, filter.ReasonBinary, entries["data.bin"].Reason)
	assert.Equal(t, types.ClassificationText, entries["notes.md"].Classification)
}

func TestAssemblerSkipsSymbolicLinks(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "real.txt", "real\n")
	if symlinkError := os.Symlink("real.txt", filepath.Join(root, "alias.txt")); symlinkError != nil {
		t.Skipf("symlinks unavailable: %v", symlinkError)
	}

	result := runAssembler(t, newScanConfig(root), commands.AssemblerOptions{})
	entries := entriesByPath(result)

	assert.Equal(t, types.ClassificationExcluded, entries["alias.txt"].Classification)
	assert.Equal(t, commands.ReasonSymbolicLink, entries["alias.txt"].Reason)
	assert.Equal(t, types.ClassificationText, entries["real.txt"].Classification)
}

func TestAssemblerNotifiesObserver(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "one.txt", "1\n")
	writeProjectFile(t, root, "two.txt", "2\n")
	writeProjectFile(t, root, ".git/config", "x\n")

	var events []commands.Event
	runAssembler(t, newScanConfig(root), commands.AssemblerOptions{Observer: func(event commands.Event) {
		events = append(events, event)
	}})

	require.Len(t, events, 3)
	assert.Equal(t, commands.EventDirectoryPruned, events[0].Kind)
	assert.Equal(t, ".git", events[0].RelativePath)
	assert.Equal(t, commands.EventFileClassified, events[2].Kind)
	assert.Equal(t, 2, events[2].Index)
	assert.Equal(t, 2, events[2].Total)
}

func TestAssemblerRejectsMissingRoot(t *testing.T) {
	config := newScanConfig(filepath.Join(t.TempDir(), "missing"))
	engine, engineError := filter.New(config)
	require.NoError(t, engineError)

	_, runError := commands.NewAssembler(config, engine, detect.NewDetector(nil, config.Detection), commands.AssemblerOptions{}).Run(context.Background())
	assert.True(t, errors.Is(runError, types.ErrConfig))
}

func TestAssemblerStopsOnCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "a.txt", "a\n")
	config := newScanConfig(root)
	engine, engineError := filter.New(config)
	require.NoError(t, engineError)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, runError := commands.NewAssembler(config, engine, detect.NewDetector(nil, config.Detection), commands.AssemblerOptions{}).Run(ctx)
	assert.ErrorIs(t, runError, context.Canceled)
}
