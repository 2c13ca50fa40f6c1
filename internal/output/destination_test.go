package output_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/printproject/internal/output"
	"github.com/temirov/printproject/internal/types"
)

func TestResolveDestinationNaming(t *testing.T) {
	directory := t.TempDir()

	testCases := []struct {
		name     string
		options  output.DestinationOptions
		expected string
	}{
		{name: "timestamped project name", options: output.DestinationOptions{Directory: directory}, expected: "demo_20240305_143000.txt"},
		{name: "custom base name", options: output.DestinationOptions{Directory: directory, BaseName: "analysis"}, expected: "analysis_20240305_143000.txt"},
		{name: "custom base name with extension", options: output.DestinationOptions{Directory: directory, BaseName: "analysis.txt"}, expected: "analysis_20240305_143000.txt"},
		{name: "overwrite", options: output.DestinationOptions{Directory: directory, Overwrite: true}, expected: "demo.txt"},
		{name: "overwrite custom", options: output.DestinationOptions{Directory: directory, BaseName: "analysis", Overwrite: true}, expected: "analysis.txt"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			destination, resolveError := output.ResolveDestination(testCase.options, "demo", fixtureTime)
			require.NoError(t, resolveError)
			assert.Equal(t, filepath.Join(directory, testCase.expected), destination)
		})
	}
}

func TestResolveDestinationNeverClobbers(t *testing.T) {
	directory := t.TempDir()
	options := output.DestinationOptions{Directory: directory}

	first, firstError := output.WriteDocument(options, "demo", fixtureTime, "first\n")
	require.NoError(t, firstError)
	second, secondError := output.WriteDocument(options, "demo", fixtureTime, "second\n")
	require.NoError(t, secondError)
	third, thirdError := output.WriteDocument(options, "demo", fixtureTime, "third\n")
	require.NoError(t, thirdError)

	assert.Equal(t, filepath.Join(directory, "demo_20240305_143000.txt"), first)
	assert.Equal(t, filepath.Join(directory, "demo_20240305_143000_1.txt"), second)
	assert.Equal(t, filepath.Join(directory, "demo_20240305_143000_2.txt"), third)

	firstContent, readError := os.ReadFile(first)
	require.NoError(t, readError)
	assert.Equal(t, "first\n", string(firstContent))
}

func TestWriteDocumentOverwrite(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "nested", "outputs")
	options := output.DestinationOptions{Directory: directory, Overwrite: true}

	_, firstError := output.WriteDocument(options, "demo", fixtureTime, "first\n")
	require.NoError(t, firstError)
	destination, secondError := output.WriteDocument(options, "demo", fixtureTime, "second\n")
	require.NoError(t, secondError)

	content, readError := os.ReadFile(destination)
	require.NoError(t, readError)
	assert.Equal(t, "second\n", string(content))

	directoryEntries, listError := os.ReadDir(directory)
	require.NoError(t, listError)
	var names []string
	for _, directoryEntry := range directoryEntries {
		names = append(names, directoryEntry.Name())
	}
	assert.ElementsMatch(t, []string{"demo.txt", ".print-project.lock"}, names)
}

func TestWriteDocumentReportsOutputWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, writeError := output.WriteDocument(output.DestinationOptions{Directory: filepath.Join(blocker, "outputs")}, "demo", fixtureTime, "doc")
	require.Error(t, writeError)
	assert.True(t, errors.Is(writeError, types.ErrOutputWrite))
	assert.Contains(t, writeError.Error(), blocker)
}

func TestAtomicWriteReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "document.txt")
	require.NoError(t, output.AtomicWrite(path, []byte("old")))
	require.NoError(t, output.AtomicWrite(path, []byte("new")))

	content, readError := os.ReadFile(path)
	require.NoError(t, readError)
	assert.Equal(t, "new", string(content))

	info, statError := os.Stat(path)
	require.NoError(t, statError)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
