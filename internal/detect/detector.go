// Package detect decides whether file content is text or binary.
package detect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	// DefaultSampleSize is the number of leading bytes inspected per file.
	DefaultSampleSize = 8192
	// DefaultConfidenceThreshold is the minimum detector confidence accepted as text.
	DefaultConfidenceThreshold = 0.5
	// DefaultMaxNonASCIIRatio is the largest share of non-ASCII runes accepted in decoded text.
	DefaultMaxNonASCIIRatio = 0.3

	// EncodingUTF8 names the encoding assigned to valid UTF-8 samples.
	EncodingUTF8 = "UTF-8"
	// EncodingSingleByte names the encoding assigned to samples accepted by the
	// single-byte fallback. windows-1252 is a superset of the printable ISO-8859-1 range.
	EncodingSingleByte = "windows-1252"

	reasonTrusted        = "trusted extension"
	reasonEmpty          = "empty sample"
	reasonNullByte       = "contains NUL bytes"
	reasonControl        = "too many control characters"
	reasonValidUTF8      = "valid UTF-8"
	reasonUndetected     = "encoding not detected"
	reasonLowConfidence  = "low encoding confidence (%.2f)"
	reasonUnknownCharset = "unsupported charset %s"
	reasonDecodeFailed   = "decoding as %s failed"
	reasonNonASCII       = "non-ASCII ratio %.2f exceeds limit"
	reasonDetected       = "detected %s"
	reasonSingleByte     = "single-byte text (%s)"

	errorOpenSampleFormat = "opening %s: %w"
	errorReadSampleFormat = "reading %s: %w"

	confidenceScale = 100.0
)

// Verdict is the outcome of classifying a sample.
type Verdict struct {
	Text       bool
	Encoding   string
	Confidence float64
	Reason     string
}

// Detector classifies samples using trusted extensions, byte heuristics and
// statistical charset detection.
type Detector struct {
	trustedExtensions types.StringSet
	settings          types.DetectionSettings
	charsetDetector   *chardet.Detector
}

// DefaultSettings returns the detection settings used when nothing is configured.
func DefaultSettings() types.DetectionSettings {
	return types.DetectionSettings{
		SampleSize:          DefaultSampleSize,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		MaxNonASCIIRatio:    DefaultMaxNonASCIIRatio,
	}
}

// NewDetector returns a Detector using settings as given. Only a SampleSize below one
// falls back to DefaultSampleSize, since a zero threshold or ratio is meaningful.
func NewDetector(trustedExtensions types.StringSet, settings types.DetectionSettings) *Detector {
	if settings.SampleSize <= 0 {
		settings.SampleSize = DefaultSampleSize
	}
	if trustedExtensions == nil {
		trustedExtensions = types.NewStringSet()
	}
	return &Detector{
		trustedExtensions: trustedExtensions,
		settings:          settings,
		charsetDetector:   chardet.NewTextDetector(),
	}
}

// IsTrusted reports whether fileName carries an extension exempt from sniffing.
func (detector *Detector) IsTrusted(fileName string) bool {
	extension := utils.FileExtension(fileName)
	return extension != "" && detector.trustedExtensions.Contains(extension)
}

// ClassifyFile classifies the file at path, reading at most the configured sample size.
// Read failures are returned as errors rather than reported as binary.
func (detector *Detector) ClassifyFile(path string) (Verdict, error) {
	fileName := filepath.Base(path)
	if detector.IsTrusted(fileName) {
		return Verdict{Text: true, Confidence: 1, Reason: reasonTrusted}, nil
	}
	sample, readError := readSample(path, detector.settings.SampleSize)
	if readError != nil {
		return Verdict{}, readError
	}
	return detector.Classify(sample, fileName), nil
}

// Classify inspects sample, which should be the leading bytes of the file named fileName.
func (detector *Detector) Classify(sample []byte, fileName string) Verdict {
	if detector.IsTrusted(fileName) {
		return Verdict{Text: true, Confidence: 1, Reason: reasonTrusted}
	}
	if len(sample) == 0 {
		return Verdict{Text: true, Encoding: EncodingUTF8, Confidence: 1, Reason: reasonEmpty}
	}
	wideUnicode := utils.HasWideUnicodeMark(sample)
	if !wideUnicode && utils.ContainsNullByte(sample) {
		return Verdict{Reason: reasonNullByte}
	}
	if !wideUnicode && utils.IsValidUTF8Prefix(sample) {
		if utils.ControlCharacterRatio(sample) > detector.settings.MaxNonASCIIRatio {
			return Verdict{Encoding: EncodingUTF8, Reason: reasonControl}
		}
		return Verdict{Text: true, Encoding: EncodingUTF8, Confidence: 1, Reason: reasonValidUTF8}
	}
	verdict := detector.classifyStatistically(sample)
	if verdict.Text || wideUnicode {
		return verdict
	}
	if fallback, accepted := detector.classifySingleByte(sample, verdict.Confidence); accepted {
		return fallback
	}
	return verdict
}

func (detector *Detector) classifyStatistically(sample []byte) Verdict {
	detected, detectError := detector.charsetDetector.DetectBest(sample)
	if detectError != nil || detected == nil || detected.Charset == "" {
		return Verdict{Reason: reasonUndetected}
	}
	confidence := float64(detected.Confidence) / confidenceScale
	if confidence < detector.settings.ConfidenceThreshold {
		return Verdict{Encoding: detected.Charset, Confidence: confidence, Reason: fmt.Sprintf(reasonLowConfidence, confidence)}
	}
	textEncoding := lookupEncoding(detected.Charset)
	if textEncoding == nil {
		return Verdict{Encoding: detected.Charset, Confidence: confidence, Reason: fmt.Sprintf(reasonUnknownCharset, detected.Charset)}
	}
	decoded, decodeError := textEncoding.NewDecoder().Bytes(sample)
	if decodeError != nil {
		return Verdict{Encoding: detected.Charset, Confidence: confidence, Reason: fmt.Sprintf(reasonDecodeFailed, detected.Charset)}
	}
	if ratio := nonASCIIRatio(string(decoded)); ratio > detector.settings.MaxNonASCIIRatio {
		return Verdict{Encoding: detected.Charset, Confidence: confidence, Reason: fmt.Sprintf(reasonNonASCII, ratio)}
	}
	return Verdict{Text: true, Encoding: detected.Charset, Confidence: confidence, Reason: fmt.Sprintf(reasonDetected, detected.Charset)}
}

// classifySingleByte accepts a sample rejected by chardet when it decodes cleanly as
// windows-1252 and its non-ASCII share stays within the configured limit. C0 control
// bytes other than whitespace rule a sample out.
func (detector *Detector) classifySingleByte(sample []byte, confidence float64) (Verdict, bool) {
	if utils.ControlCharacterRatio(sample) > 0 {
		return Verdict{}, false
	}
	for _, byteValue := range sample {
		if _, undefined := windows1252Undefined[byteValue]; undefined {
			return Verdict{}, false
		}
	}
	decoded, decodeError := charmap.Windows1252.NewDecoder().Bytes(sample)
	if decodeError != nil {
		return Verdict{}, false
	}
	if nonASCIIRatio(string(decoded)) > detector.settings.MaxNonASCIIRatio {
		return Verdict{}, false
	}
	return Verdict{Text: true, Encoding: EncodingSingleByte, Confidence: confidence, Reason: fmt.Sprintf(reasonSingleByte, EncodingSingleByte)}, true
}

var windows1252Undefined = map[byte]struct{}{0x81: {}, 0x8D: {}, 0x8F: {}, 0x90: {}, 0x9D: {}}

// DecodeContent converts data in the named encoding to UTF-8. Unknown encodings and
// UTF-8 input are passed through with invalid sequences replaced.
func DecodeContent(data []byte, encodingName string) string {
	if encodingName != "" && !strings.EqualFold(encodingName, EncodingUTF8) {
		if textEncoding := lookupEncoding(encodingName); textEncoding != nil {
			if decoded, decodeError := textEncoding.NewDecoder().Bytes(data); decodeError == nil {
				return strings.ToValidUTF8(string(decoded), string(utf8.RuneError))
			}
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

func lookupEncoding(name string) encoding.Encoding {
	if textEncoding, lookupError := htmlindex.Get(name); lookupError == nil && textEncoding != nil {
		return textEncoding
	}
	if textEncoding, lookupError := ianaindex.IANA.Encoding(name); lookupError == nil && textEncoding != nil {
		return textEncoding
	}
	return nil
}

func nonASCIIRatio(text string) float64 {
	total := 0
	nonASCII := 0
	for _, character := range text {
		total++
		if character >= utf8.RuneSelf {
			nonASCII++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(nonASCII) / float64(total)
}

func readSample(path string, sampleSize int) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(errorOpenSampleFormat, path, openError)
	}
	defer fileHandle.Close()

	buffer := make([]byte, sampleSize)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf(errorReadSampleFormat, path, readError)
	}
	return buffer[:bytesRead], nil
}
