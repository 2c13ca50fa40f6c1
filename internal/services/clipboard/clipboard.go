// Package clipboard copies generated documents to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorCopyFormat = "copying %d bytes to clipboard: %w"

// ErrUnsupported is returned when the platform offers no clipboard utility.
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	unsupported func() bool
	writeAll    func(text string) error
}

// NewService constructs a clipboard Service bound to the system clipboard.
func NewService() *Service {
	return &Service{
		unsupported: func() bool { return clipboard.Unsupported },
		writeAll:    clipboard.WriteAll,
	}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if service.unsupported() {
		return ErrUnsupported
	}
	if writeError := service.writeAll(text); writeError != nil {
		return fmt.Errorf(errorCopyFormat, len(text), writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
