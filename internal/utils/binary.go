package utils

import (
	"bytes"
	"unicode/utf8"
)

var (
	utf16LittleEndianMark = []byte{0xFF, 0xFE}
	utf16BigEndianMark    = []byte{0xFE, 0xFF}
	utf32LittleEndianMark = []byte{0xFF, 0xFE, 0x00, 0x00}
	utf32BigEndianMark    = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// ContainsNullByte reports whether data holds a NUL byte.
func ContainsNullByte(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

// HasWideUnicodeMark reports whether data starts with a UTF-16 or UTF-32 byte order mark.
// Such text legitimately contains NUL bytes.
func HasWideUnicodeMark(data []byte) bool {
	return bytes.HasPrefix(data, utf32LittleEndianMark) ||
		bytes.HasPrefix(data, utf32BigEndianMark) ||
		bytes.HasPrefix(data, utf16LittleEndianMark) ||
		bytes.HasPrefix(data, utf16BigEndianMark)
}

// IsValidUTF8Prefix reports whether data is valid UTF-8, tolerating a rune cut off
// at the end of a bounded sample.
func IsValidUTF8Prefix(data []byte) bool {
	if utf8.Valid(data) {
		return true
	}
	for trim := 1; trim < utf8.UTFMax && trim < len(data); trim++ {
		head := data[:len(data)-trim]
		if !utf8.Valid(head) {
			continue
		}
		tail := data[len(data)-trim:]
		if !utf8.FullRune(tail) && utf8.RuneStart(tail[0]) {
			return true
		}
	}
	return false
}

// ControlCharacterRatio returns the share of bytes that are C0 control characters
// other than tab, newline, carriage return and form feed.
func ControlCharacterRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	controlCount := 0
	for _, byteValue := range data {
		if byteValue < 0x20 && byteValue != '\t' && byteValue != '\n' && byteValue != '\r' && byteValue != '\f' {
			controlCount++
		}
	}
	return float64(controlCount) / float64(len(data))
}
