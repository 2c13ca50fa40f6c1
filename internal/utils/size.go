package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	kilobyte = 1024
	megabyte = kilobyte * 1024
	gigabyte = megabyte * 1024
)

var countPrinter = message.NewPrinter(language.English)

// FormatFileSize converts a byte length into a human-readable string such as "4.2 KB".
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 0:
		return "0 bytes"
	case bytes < kilobyte:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < megabyte:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kilobyte)
	case bytes < gigabyte:
		return fmt.Sprintf("%.1f MB", float64(bytes)/megabyte)
	default:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gigabyte)
	}
}

// FormatCount renders an integer with thousands separators.
func FormatCount(value int) string {
	return countPrinter.Sprintf("%d", value)
}
