// Package utils contains general helper functions used across print-project.
package utils

import (
	"path/filepath"
	"strings"
)

const listSeparator = ","

// DeduplicatePatterns removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// SplitList parses a comma separated list, trimming whitespace and dropping empty items.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var items []string
	for _, rawItem := range strings.Split(value, listSeparator) {
		trimmedItem := strings.TrimSpace(rawItem)
		if trimmedItem != "" {
			items = append(items, trimmedItem)
		}
	}
	return DeduplicatePatterns(items)
}

// JoinList renders items the way the document header lists them.
func JoinList(items []string) string {
	return strings.Join(items, listSeparator+" ")
}

// NormalizeExtension lower-cases an extension and strips its leading dot.
func NormalizeExtension(extension string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
}

// NormalizeExtensions applies NormalizeExtension to every item.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		if value := NormalizeExtension(extension); value != "" {
			normalized = append(normalized, value)
		}
	}
	return DeduplicatePatterns(normalized)
}

// FileExtension returns the normalized extension of a file name, or "" when there is none.
func FileExtension(fileName string) string {
	return NormalizeExtension(filepath.Ext(fileName))
}

// RelativePathOrSelf calculates the slash-separated relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// CountLines returns the number of lines in content. A trailing newline does not
// start an additional line.
func CountLines(content string) int {
	return len(SplitLines(content))
}

// SplitLines splits content on \n, \r\n and \r without producing a trailing empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	return strings.Split(normalized, "\n")
}
