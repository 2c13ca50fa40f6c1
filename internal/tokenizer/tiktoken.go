package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer for model %q: %w"
)

var errMissingEncoding = errors.New("tokenizer encoding is not initialized")

// tiktokenCounter counts BPE tokens of decoded file content. Special-token markers
// found in project files are counted as ordinary text.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	label    string
}

// newTiktokenCounter selects the encoding registered for model, falling back to
// cl100k_base for models tiktoken does not know.
func newTiktokenCounter(model string) (tiktokenCounter, error) {
	normalizedModel := strings.ToLower(strings.TrimSpace(model))
	if normalizedModel == "" {
		normalizedModel = DefaultModel
	}
	if encoding, encodingError := tiktoken.EncodingForModel(normalizedModel); encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, label: normalizedModel}, nil
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return tiktokenCounter{}, fmt.Errorf(errorFallbackEncodingFormat, normalizedModel, fallbackError)
	}
	return tiktokenCounter{encoding: fallback, label: defaultEncodingName}, nil
}

func (counter tiktokenCounter) Name() string {
	return counter.label
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errMissingEncoding
	}
	if input == "" {
		return 0, nil
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
