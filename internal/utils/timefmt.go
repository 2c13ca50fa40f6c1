package utils

import (
	"fmt"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	fileStampLayout = "20060102_150405"
)

// FormatTimestamp returns the provided time formatted for document headers.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(timestampLayout)
}

// FormatFileStamp returns a sortable stamp used in output file names.
func FormatFileStamp(value time.Time) string {
	return value.Format(fileStampLayout)
}

// FormatSeconds renders a duration as seconds with two decimals.
func FormatSeconds(duration time.Duration) string {
	return fmt.Sprintf("%.2f", duration.Seconds())
}
