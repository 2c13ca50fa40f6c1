// Package types defines every cross‑package data structure used by the print-project CLI.
package types

import (
	"sort"
	"time"
)

// Classification describes the outcome of examining a discovered file.
type Classification string

const (
	ClassificationText     Classification = "text"
	ClassificationBinary   Classification = "skipped-binary"
	ClassificationTooLarge Classification = "skipped-too-large"
	ClassificationExcluded Classification = "skipped-excluded"
	ClassificationError    Classification = "skipped-error"

	TreeSourceExplicit   = "explicit tree config"
	TreeSourceProcessing = "file processing config"
)

// Classifications lists every classification in summary order.
var Classifications = []Classification{
	ClassificationText,
	ClassificationBinary,
	ClassificationTooLarge,
	ClassificationExcluded,
	ClassificationError,
}

// StringSet is an immutable-by-convention membership set.
type StringSet map[string]struct{}

// NewStringSet builds a set from values, dropping empty strings.
func NewStringSet(values ...string) StringSet {
	set := make(StringSet, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	return set
}

// Contains reports whether value is a member of the set.
func (set StringSet) Contains(value string) bool {
	_, exists := set[value]
	return exists
}

// Len returns the number of members.
func (set StringSet) Len() int {
	return len(set)
}

// Sorted returns the members in ascending order.
func (set StringSet) Sorted() []string {
	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	sort.Strings(members)
	return members
}

// DetectionSettings controls binary sniffing.
type DetectionSettings struct {
	SampleSize          int
	ConfidenceThreshold float64
	MaxNonASCIIRatio    float64
}

// ScanConfig is the configuration resolved once per run. Components receive it
// by value and must not modify its sets.
type ScanConfig struct {
	Root              string
	SkipDirs          StringSet
	IncludeExtensions StringSet
	ExcludeExtensions StringSet
	IgnoreFiles       StringSet
	ForceIncludeFiles StringSet
	OnlyIncludeFiles  StringSet
	TreeExcludeDirs   StringSet
	TreeExcludeSource string
	TrustedExtensions StringSet
	MaxFileSize       int64
	Detection         DetectionSettings
	LineNumbers       bool
	IncludeTree       bool
	IncludeSummary    bool
	UseGitignore      bool
}

// ExclusiveMode reports whether only-include-files drives selection.
func (config ScanConfig) ExclusiveMode() bool {
	return config.OnlyIncludeFiles.Len() > 0
}

// FileEntry is one discovered file. It is not modified after classification.
type FileEntry struct {
	Path           string
	RelativePath   string
	Size           int64
	Classification Classification
	Reason         string
	ForceIncluded  bool
	Encoding       string
	Content        string
	Lines          int
	Tokens         int
}

// SkipReason aggregates skipped files sharing a reason.
type SkipReason struct {
	Reason string
	Paths  []string
}

// DirectoryError records a directory whose listing failed during traversal.
type DirectoryError struct {
	Path   string
	Reason string
}

// ScanResult accumulates the outcome of a single run. Unreadable directories are
// kept apart from SkipReasons so the file totals and the reason tallies agree.
type ScanResult struct {
	Root        string
	ProjectName string
	Tree        string
	Entries     []FileEntry
	Counts      map[Classification]int
	SkippedDirs []string
	SkipReasons []SkipReason
	DirErrors   []DirectoryError
	TotalBytes  int64
	TotalLines  int
	TotalTokens int
	TokenModel  string
	StartedAt   time.Time
	Elapsed     time.Duration
}

// NewScanResult returns an empty result for root.
func NewScanResult(root string, projectName string, startedAt time.Time) *ScanResult {
	return &ScanResult{
		Root:        root,
		ProjectName: projectName,
		Counts:      make(map[Classification]int, len(Classifications)),
		StartedAt:   startedAt,
	}
}

// Record appends entry and updates the aggregate counters.
func (result *ScanResult) Record(entry FileEntry) {
	result.Entries = append(result.Entries, entry)
	result.Counts[entry.Classification]++
	if entry.Classification == ClassificationText {
		result.TotalBytes += entry.Size
		result.TotalLines += entry.Lines
		result.TotalTokens += entry.Tokens
		return
	}
	result.AddSkipReason(entry.Reason, entry.RelativePath)
}

// AddSkipReason tallies path under reason, keeping first-seen reason order.
func (result *ScanResult) AddSkipReason(reason string, path string) {
	for index := range result.SkipReasons {
		if result.SkipReasons[index].Reason == reason {
			result.SkipReasons[index].Paths = append(result.SkipReasons[index].Paths, path)
			return
		}
	}
	result.SkipReasons = append(result.SkipReasons, SkipReason{Reason: reason, Paths: []string{path}})
}

// Processed returns the text entries in traversal order.
func (result *ScanResult) Processed() []FileEntry {
	var processed []FileEntry
	for _, entry := range result.Entries {
		if entry.Classification == ClassificationText {
			processed = append(processed, entry)
		}
	}
	return processed
}

// ForceIncluded returns relative paths of processed files that bypassed the filters.
func (result *ScanResult) ForceIncluded() []string {
	var paths []string
	for _, entry := range result.Entries {
		if entry.Classification == ClassificationText && entry.ForceIncluded {
			paths = append(paths, entry.RelativePath)
		}
	}
	return paths
}

// TotalFiles is the number of files discovered during traversal.
func (result *ScanResult) TotalFiles() int {
	return len(result.Entries)
}

// SkippedFiles is the number of discovered files that were not processed.
func (result *ScanResult) SkippedFiles() int {
	return len(result.Entries) - result.Counts[ClassificationText]
}
