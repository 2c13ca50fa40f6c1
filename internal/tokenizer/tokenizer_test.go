package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountTextCountsRunes(t *testing.T) {
	result, err := CountText(testCounter{}, "héllo")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != 5 {
		t.Fatalf("expected 5 tokens, got %d", result.Tokens)
	}
}

func TestCountTextNilCounterDisablesCounting(t *testing.T) {
	result, err := CountText(nil, "hello")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if result.Counted || result.Tokens != 0 {
		t.Fatalf("expected uncounted result, got %+v", result)
	}
}

func TestCountTextPropagatesCounterError(t *testing.T) {
	if _, err := CountText(failingCounter{}, "hello"); err == nil {
		t.Fatalf("expected error from failing counter")
	}
}

func TestTiktokenCounterWithoutEncoding(t *testing.T) {
	_, err := (tiktokenCounter{label: "empty"}).CountString("x")
	if !errors.Is(err, errMissingEncoding) {
		t.Fatalf("expected errMissingEncoding, got %v", err)
	}
}
