// Package tokenizer estimates token counts for processed file content.
package tokenizer

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI or config file.
type Config struct {
	Model string
}

// NewCounter returns a Counter for the requested model together with the name the
// counts should be attributed to. Models without a dedicated tiktoken encoding are
// counted with cl100k_base.
func NewCounter(cfg Config) (Counter, string, error) {
	counter, counterError := newTiktokenCounter(cfg.Model)
	if counterError != nil {
		return nil, "", counterError
	}
	return counter, counter.Name(), nil
}
