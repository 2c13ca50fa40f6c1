package tokenizer

// CountResult captures the outcome of counting a piece of content.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountText estimates tokens for decoded file content. A nil counter disables counting
// and is not an error.
func CountText(counter Counter, content string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, nil
	}
	tokens, countError := counter.CountString(content)
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
