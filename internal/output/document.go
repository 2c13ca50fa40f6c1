// Package output renders the project document and publishes it.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	headerProjectFormat        = "# Project: %s"
	headerDateFormat           = "# Date: %s"
	headerDirectoryFormat      = "# Directory: %s"
	headerSkipFoldersLabel     = "Excluded folders (file processing)"
	headerTreeFoldersLabel     = "Excluded folders (tree display)"
	headerTreeSourceFormat     = "%s (from %s)"
	headerExcludedExtLabel     = "Excluded extensions"
	headerExcludedFilesLabel   = "Excluded files"
	headerTrustedExtLabel      = "Trusted extensions"
	headerOnlyIncludeLabel     = "ONLY processing files"
	headerForceIncludeLabel    = "Force included files"
	headerLabelOnlyFormat      = "# %s:"
	headerLabelWithValueFormat = "# %s: %s"

	sectionDirectoryStructure = "DIRECTORY STRUCTURE"
	sectionFileContents       = "FILE CONTENTS"

	fileHeaderFormat       = "=== %s (%s) ==="
	fileLinesFormat        = "%s lines"
	fileTokensFormat       = "%s tokens"
	fileDetailSeparator    = ", "
	codeFence              = "```"
	numberedLineFormat     = "%4d | %s"
	extensionDisplayPrefix = "."

	summaryRuleWidth        = 80
	summaryTitle            = "SUMMARY"
	summaryScanTimeFormat   = "Total scan time: %s seconds"
	summaryFilesFoundFormat = "Total files found: %d"
	summaryProcessedFormat  = "Files processed: %d"
	summarySkippedFormat    = "Files skipped: %d"
	summaryLinesFormat      = "Total code lines: %s"
	summarySizeFormat       = "Total size: %s"
	summaryTokensFormat     = "Total tokens: %s (%s)"
	summaryByClassification = "Files by classification:"
	summaryForceCountFormat = "Files force-included: %d"
	summaryForceTitle       = "Force-included files:"
	summaryDirsCountFormat  = "Directories skipped: %d"
	summaryDirsTitle        = "Skipped directories:"
	summaryReasonsTitle     = "Skip reasons:"
	summaryDirErrorsTitle   = "Unreadable directories:"
	summaryDirErrorFormat   = "  - %s (%s)"
	summaryProcessedTitle   = "Processed files with line counts:"
	summaryItemFormat       = "  - %s"
	summaryCountItemFormat  = "  - %s: %d"
	summaryLinesItemFormat  = "  - %s (%s lines)"
	summaryNone             = "  (none)"
	documentLineSeparator   = "\n"
	documentTerminator      = "\n"
)

// DocumentMeta carries document attributes that do not come from the scan itself.
type DocumentMeta struct {
	// GeneratedAt is printed in the header. Zero falls back to the scan start time.
	GeneratedAt time.Time
}

// RenderDocument returns the complete output document for result.
func RenderDocument(result *types.ScanResult, config types.ScanConfig, meta DocumentMeta) string {
	generatedAt := meta.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = result.StartedAt
	}

	lines := renderHeader(result, config, generatedAt)
	lines = append(lines, "", "")

	if config.IncludeTree {
		lines = append(lines, sectionDirectoryStructure, "", result.Tree, "")
	}
	lines = append(lines, sectionFileContents, "")

	for _, entry := range result.Processed() {
		lines = append(lines, renderFileBlock(entry, config.LineNumbers, result.TokenModel != "")...)
	}

	if config.IncludeSummary {
		lines = append(lines, renderSummary(result)...)
	}

	return strings.TrimRight(strings.Join(lines, documentLineSeparator), documentLineSeparator) + documentTerminator
}

func renderHeader(result *types.ScanResult, config types.ScanConfig, generatedAt time.Time) []string {
	treeExclusions := utils.JoinList(config.TreeExcludeDirs.Sorted())
	lines := []string{
		fmt.Sprintf(headerProjectFormat, result.ProjectName),
		fmt.Sprintf(headerDateFormat, utils.FormatTimestamp(generatedAt)),
		fmt.Sprintf(headerDirectoryFormat, result.Root),
		headerLine(headerSkipFoldersLabel, utils.JoinList(config.SkipDirs.Sorted())),
		headerLine(headerTreeFoldersLabel, fmt.Sprintf(headerTreeSourceFormat, treeExclusions, config.TreeExcludeSource)),
		headerLine(headerExcludedExtLabel, utils.JoinList(displayExtensions(config.ExcludeExtensions))),
		headerLine(headerExcludedFilesLabel, utils.JoinList(config.IgnoreFiles.Sorted())),
		headerLine(headerTrustedExtLabel, utils.JoinList(displayExtensions(config.TrustedExtensions))),
	}
	switch {
	case config.ExclusiveMode():
		lines = append(lines, headerLine(headerOnlyIncludeLabel, utils.JoinList(config.OnlyIncludeFiles.Sorted())))
	case config.ForceIncludeFiles.Len() > 0:
		lines = append(lines, headerLine(headerForceIncludeLabel, utils.JoinList(config.ForceIncludeFiles.Sorted())))
	}
	return lines
}

func headerLine(label string, value string) string {
	if value == "" {
		return fmt.Sprintf(headerLabelOnlyFormat, label)
	}
	return fmt.Sprintf(headerLabelWithValueFormat, label, value)
}

func displayExtensions(extensions types.StringSet) []string {
	sorted := extensions.Sorted()
	display := make([]string, len(sorted))
	for index, extension := range sorted {
		display[index] = extensionDisplayPrefix + extension
	}
	return display
}

func renderFileBlock(entry types.FileEntry, lineNumbers bool, withTokens bool) []string {
	details := []string{
		utils.FormatFileSize(entry.Size),
		fmt.Sprintf(fileLinesFormat, utils.FormatCount(entry.Lines)),
	}
	if withTokens {
		details = append(details, fmt.Sprintf(fileTokensFormat, utils.FormatCount(entry.Tokens)))
	}

	block := []string{
		fmt.Sprintf(fileHeaderFormat, entry.RelativePath, strings.Join(details, fileDetailSeparator)),
		codeFence,
	}
	for index, line := range utils.SplitLines(entry.Content) {
		if lineNumbers {
			block = append(block, fmt.Sprintf(numberedLineFormat, index+1, line))
			continue
		}
		block = append(block, line)
	}
	return append(block, codeFence, "")
}

func renderSummary(result *types.ScanResult) []string {
	rule := strings.Repeat("=", summaryRuleWidth)
	processed := result.Processed()
	lines := []string{
		rule,
		summaryTitle,
		rule,
		"",
		fmt.Sprintf(summaryScanTimeFormat, utils.FormatSeconds(result.Elapsed)),
		fmt.Sprintf(summaryFilesFoundFormat, result.TotalFiles()),
		fmt.Sprintf(summaryProcessedFormat, len(processed)),
		fmt.Sprintf(summarySkippedFormat, result.SkippedFiles()),
		fmt.Sprintf(summaryLinesFormat, utils.FormatCount(result.TotalLines)),
		fmt.Sprintf(summarySizeFormat, utils.FormatFileSize(result.TotalBytes)),
	}
	if result.TokenModel != "" {
		lines = append(lines, fmt.Sprintf(summaryTokensFormat, utils.FormatCount(result.TotalTokens), result.TokenModel))
	}

	lines = append(lines, "", summaryByClassification)
	for _, classification := range types.Classifications {
		lines = append(lines, fmt.Sprintf(summaryCountItemFormat, classification, result.Counts[classification]))
	}

	if forceIncluded := result.ForceIncluded(); len(forceIncluded) > 0 {
		lines = append(lines, fmt.Sprintf(summaryForceCountFormat, len(forceIncluded)), "", summaryForceTitle)
		for _, relativePath := range forceIncluded {
			lines = append(lines, fmt.Sprintf(summaryItemFormat, relativePath))
		}
	}

	if len(result.SkippedDirs) > 0 {
		lines = append(lines, fmt.Sprintf(summaryDirsCountFormat, len(result.SkippedDirs)), "", summaryDirsTitle)
		for _, directory := range result.SkippedDirs {
			lines = append(lines, fmt.Sprintf(summaryItemFormat, directory))
		}
	}

	lines = append(lines, "", summaryReasonsTitle)
	if len(result.SkipReasons) == 0 {
		lines = append(lines, summaryNone)
	}
	for _, skipReason := range result.SkipReasons {
		lines = append(lines, fmt.Sprintf(summaryCountItemFormat, skipReason.Reason, len(skipReason.Paths)))
	}

	if len(result.DirErrors) > 0 {
		lines = append(lines, "", summaryDirErrorsTitle)
		for _, directoryError := range result.DirErrors {
			lines = append(lines, fmt.Sprintf(summaryDirErrorFormat, directoryError.Path, directoryError.Reason))
		}
	}

	lines = append(lines, "", summaryProcessedTitle)
	if len(processed) == 0 {
		lines = append(lines, summaryNone)
	}
	for _, entry := range processed {
		lines = append(lines, fmt.Sprintf(summaryLinesItemFormat, entry.RelativePath, utils.FormatCount(entry.Lines)))
	}
	return lines
}
