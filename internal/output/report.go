package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	reportTitle              = "Analysis complete!"
	reportProcessedFormat    = "Processed %d of %d files\n"
	reportLinesFormat        = "Total code lines processed: %s\n"
	reportForceCountFormat   = "Force-included files: %d\n"
	reportForceItemFormat    = "  ✓ %s (%s lines)\n"
	reportSkippedFormat      = "Files skipped: %d\n"
	reportDirsCountFormat    = "Directories skipped: %d\n"
	reportDirsTitle          = "Skipped directories:"
	reportItemFormat         = "  - %s\n"
	reportReasonsTitle       = "Skip reasons:"
	reportReasonFormat       = "  - %s: %d\n"
	reportDirErrorsTitle     = "Unreadable directories:"
	reportDirErrorFormat     = "  - %s (%s)\n"
	reportTreeFormat         = "Tree exclusions: %s (from %s)\n"
	reportTokensFormat       = "Total tokens: %s (%s)\n"
	reportElapsedFormat      = "Execution time: %s seconds\n"
	reportOutputFileFormat   = "Output file: %s (%s)\n"
	reportNoTreeExclusions   = "None"
	progressFormat           = "\rProcessing file %d/%d: %s"
	progressWidth            = 100
	progressCarriageReturn   = "\r"
	progressPaddingCharacter = " "
	reportSectionBreakPrefix = "\n"
	reportLineTerminator     = "\n"
)

// RunReport is the information printed after a run.
type RunReport struct {
	Result      *types.ScanResult
	Config      types.ScanConfig
	Destination string
	OutputSize  int64
}

// WriteReport prints the post-run report to writer. Colors follow fatih/color, which
// disables them when the process is not attached to a terminal.
func WriteReport(writer io.Writer, report RunReport) {
	titleColor := color.New(color.FgGreen, color.Bold)
	headingColor := color.New(color.Bold)
	warningColor := color.New(color.FgYellow)
	pathColor := color.New(color.FgCyan)

	result := report.Result
	processed := result.Processed()

	titleColor.Fprint(writer, reportSectionBreakPrefix+reportTitle+reportLineTerminator)
	fmt.Fprintf(writer, reportProcessedFormat, len(processed), result.TotalFiles())
	fmt.Fprintf(writer, reportLinesFormat, utils.FormatCount(result.TotalLines))
	if result.TokenModel != "" {
		fmt.Fprintf(writer, reportTokensFormat, utils.FormatCount(result.TotalTokens), result.TokenModel)
	}

	if forceIncluded := forceIncludedEntries(processed); len(forceIncluded) > 0 {
		fmt.Fprintf(writer, reportForceCountFormat, len(forceIncluded))
		for _, entry := range forceIncluded {
			fmt.Fprintf(writer, reportForceItemFormat, entry.RelativePath, utils.FormatCount(entry.Lines))
		}
	}

	skippedColor := warningColor
	if result.SkippedFiles() == 0 {
		skippedColor = color.New(color.Reset)
	}
	skippedColor.Fprintf(writer, reportSkippedFormat, result.SkippedFiles())

	if len(result.SkippedDirs) > 0 {
		fmt.Fprintf(writer, reportDirsCountFormat, len(result.SkippedDirs))
		headingColor.Fprint(writer, reportSectionBreakPrefix+reportDirsTitle+reportLineTerminator)
		for _, directory := range result.SkippedDirs {
			fmt.Fprintf(writer, reportItemFormat, directory)
		}
	}

	if len(result.SkipReasons) > 0 {
		headingColor.Fprint(writer, reportSectionBreakPrefix+reportReasonsTitle+reportLineTerminator)
		for _, skipReason := range result.SkipReasons {
			fmt.Fprintf(writer, reportReasonFormat, skipReason.Reason, len(skipReason.Paths))
		}
	}

	if len(result.DirErrors) > 0 {
		warningColor.Fprint(writer, reportSectionBreakPrefix+reportDirErrorsTitle+reportLineTerminator)
		for _, directoryError := range result.DirErrors {
			fmt.Fprintf(writer, reportDirErrorFormat, directoryError.Path, directoryError.Reason)
		}
	}

	treeExclusions := utils.JoinList(report.Config.TreeExcludeDirs.Sorted())
	if treeExclusions == "" {
		treeExclusions = reportNoTreeExclusions
	}
	fmt.Fprint(writer, reportSectionBreakPrefix)
	fmt.Fprintf(writer, reportTreeFormat, treeExclusions, report.Config.TreeExcludeSource)
	fmt.Fprintf(writer, reportElapsedFormat, utils.FormatSeconds(result.Elapsed))
	if report.Destination != "" {
		fmt.Fprintf(writer, reportOutputFileFormat, pathColor.Sprint(report.Destination), utils.FormatFileSize(report.OutputSize))
	}
}

func forceIncludedEntries(processed []types.FileEntry) []types.FileEntry {
	var forceIncluded []types.FileEntry
	for _, entry := range processed {
		if entry.ForceIncluded {
			forceIncluded = append(forceIncluded, entry)
		}
	}
	return forceIncluded
}

// Progress draws a single self-overwriting progress line. It is inert unless the
// underlying writer is a terminal.
type Progress struct {
	writer  io.Writer
	enabled bool
	drawn   bool
}

// NewProgress returns a Progress bound to file, enabled only when file is a terminal.
func NewProgress(file *os.File) *Progress {
	enabled := file != nil && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()))
	return &Progress{writer: file, enabled: enabled}
}

// Enabled reports whether updates are drawn.
func (progress *Progress) Enabled() bool {
	return progress.enabled
}

// Update redraws the line for file index of total.
func (progress *Progress) Update(index int, total int, relativePath string) {
	if !progress.enabled {
		return
	}
	line := fmt.Sprintf(progressFormat, index, total, relativePath)
	if padding := progressWidth - len(line); padding > 0 {
		line += strings.Repeat(progressPaddingCharacter, padding)
	}
	fmt.Fprint(progress.writer, line)
	progress.drawn = true
}

// Clear erases the progress line if one was drawn.
func (progress *Progress) Clear() {
	if !progress.enabled || !progress.drawn {
		return
	}
	fmt.Fprint(progress.writer, progressCarriageReturn+strings.Repeat(progressPaddingCharacter, progressWidth)+progressCarriageReturn)
	progress.drawn = false
}
