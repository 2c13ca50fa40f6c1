package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	fieldFolder           = "folder"
	fieldIncludeFiles     = "include-files"
	fieldMaxSize          = "max-size"
	fieldSampleSize       = "sample-size"
	fieldConfidence       = "confidence"
	fieldMaxNonASCIIRatio = "max_non_ascii_ratio"

	messageRootMissing      = "does not exist"
	messageRootNotDirectory = "is not a directory"
	messageIncludeConflict  = "cannot be combined with --only-include-files"
	messageNegativeSize     = "must not be negative"
	messageSampleSize       = "must be at least 1"
	messageUnitInterval     = "must be between 0 and 1"

	// TreeExcludeNone as the only tree exclusion expands every directory in the tree.
	TreeExcludeNone = "none"

	errorResolveRootFormat = "resolving project folder %s: %w"
	errorStatRootFormat    = "reading project folder %s: %w"
)

// Settings is the fully resolved configuration of a run.
type Settings struct {
	Scan            types.ScanConfig
	Console         bool
	OutputDirectory string
	OutputName      string
	Overwrite       bool
	Stdout          bool
	Clipboard       bool
	Tokens          bool
	Model           string
}

// Resolve merges layers over Defaults, lowest priority first, and validates the result.
func Resolve(layers ...Values) (Settings, error) {
	merged := Defaults()
	for _, layer := range layers {
		merged = merged.Merge(layer)
	}

	root, rootError := resolveRoot(valueOf(merged.Root))
	if rootError != nil {
		return Settings{}, rootError
	}

	if len(merged.IncludeFiles.Items) > 0 && len(merged.OnlyIncludeFiles.Items) > 0 {
		return Settings{}, types.NewConfigError(fieldIncludeFiles, utils.JoinList(merged.IncludeFiles.Items), messageIncludeConflict)
	}
	maxFileSize := valueOf(merged.MaxFileSize)
	if maxFileSize < 0 {
		return Settings{}, types.NewConfigError(fieldMaxSize, strconv.FormatInt(maxFileSize, 10), messageNegativeSize)
	}
	sampleSize := valueOf(merged.SampleSize)
	if sampleSize < 1 {
		return Settings{}, types.NewConfigError(fieldSampleSize, strconv.Itoa(sampleSize), messageSampleSize)
	}
	confidenceThreshold := valueOf(merged.ConfidenceThreshold)
	if !withinUnitInterval(confidenceThreshold) {
		return Settings{}, types.NewConfigError(fieldConfidence, formatNumber(confidenceThreshold), messageUnitInterval)
	}
	maxNonASCIIRatio := valueOf(merged.MaxNonASCIIRatio)
	if !withinUnitInterval(maxNonASCIIRatio) {
		return Settings{}, types.NewConfigError(fieldMaxNonASCIIRatio, formatNumber(maxNonASCIIRatio), messageUnitInterval)
	}

	skipDirs := types.NewStringSet(merged.SkipFolders.Items...)
	treeExcludeDirs := skipDirs
	treeExcludeSource := types.TreeSourceProcessing
	if merged.TreeExclude.Set && len(merged.TreeExclude.Items) > 0 {
		treeExcludeDirs = types.NewStringSet(merged.TreeExclude.Items...)
		if len(merged.TreeExclude.Items) == 1 && strings.EqualFold(merged.TreeExclude.Items[0], TreeExcludeNone) {
			treeExcludeDirs = types.NewStringSet()
		}
		treeExcludeSource = types.TreeSourceExplicit
	}

	scan := types.ScanConfig{
		Root:              root,
		SkipDirs:          skipDirs,
		IncludeExtensions: types.NewStringSet(utils.NormalizeExtensions(merged.Extensions.Items)...),
		ExcludeExtensions: types.NewStringSet(utils.NormalizeExtensions(merged.ExcludeExtensions.Items)...),
		IgnoreFiles:       types.NewStringSet(merged.IgnoreFiles.Items...),
		ForceIncludeFiles: types.NewStringSet(merged.IncludeFiles.Items...),
		OnlyIncludeFiles:  types.NewStringSet(merged.OnlyIncludeFiles.Items...),
		TreeExcludeDirs:   treeExcludeDirs,
		TreeExcludeSource: treeExcludeSource,
		TrustedExtensions: types.NewStringSet(utils.NormalizeExtensions(merged.TrustedExtensions.Items)...),
		MaxFileSize:       maxFileSize,
		Detection: types.DetectionSettings{
			SampleSize:          sampleSize,
			ConfidenceThreshold: confidenceThreshold,
			MaxNonASCIIRatio:    maxNonASCIIRatio,
		},
		LineNumbers:    valueOf(merged.LineNumbers),
		IncludeTree:    !valueOf(merged.NoTree),
		IncludeSummary: !valueOf(merged.NoSummary),
		UseGitignore:   valueOf(merged.UseGitignore),
	}

	return Settings{
		Scan:            scan,
		Console:         valueOf(merged.Console),
		OutputDirectory: valueOf(merged.OutputDirectory),
		OutputName:      valueOf(merged.OutputName),
		Overwrite:       valueOf(merged.Overwrite),
		Stdout:          valueOf(merged.Stdout),
		Clipboard:       valueOf(merged.Clipboard),
		Tokens:          valueOf(merged.Tokens),
		Model:           valueOf(merged.Model),
	}, nil
}

func resolveRoot(root string) (string, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return "", fmt.Errorf(errorResolveRootFormat, root, absoluteError)
	}
	info, statError := os.Stat(absoluteRoot)
	if statError != nil {
		if os.IsNotExist(statError) {
			return "", types.NewConfigError(fieldFolder, absoluteRoot, messageRootMissing)
		}
		return "", fmt.Errorf(errorStatRootFormat, absoluteRoot, statError)
	}
	if !info.IsDir() {
		return "", types.NewConfigError(fieldFolder, absoluteRoot, messageRootNotDirectory)
	}
	return absoluteRoot, nil
}

func withinUnitInterval(value float64) bool {
	return value >= 0 && value <= 1
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
