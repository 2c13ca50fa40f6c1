package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopyWritesText(t *testing.T) {
	var copied string
	service := &Service{
		unsupported: func() bool { return false },
		writeAll: func(text string) error {
			copied = text
			return nil
		},
	}
	if err := service.Copy("document"); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if copied != "document" {
		t.Fatalf("expected document to be copied, got %q", copied)
	}
}

func TestServiceCopyUnsupported(t *testing.T) {
	service := &Service{
		unsupported: func() bool { return true },
		writeAll: func(string) error {
			t.Fatalf("writeAll must not be called")
			return nil
		},
	}
	if err := service.Copy("document"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestServiceCopyWrapsFailure(t *testing.T) {
	failure := errors.New("xclip missing")
	service := &Service{
		unsupported: func() bool { return false },
		writeAll:    func(string) error { return failure },
	}
	if err := service.Copy("abc"); !errors.Is(err, failure) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}
