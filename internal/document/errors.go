package document

import "fmt"

// InputTooShortError means the text has fewer tokens than the configured
// floor. Callers should ask for more text rather than show a score.
type InputTooShortError struct {
	Tokens int
	Min    int
}

func (e *InputTooShortError) Error() string {
	return fmt.Sprintf("input too short: %d tokens, need at least %d", e.Tokens, e.Min)
}

// UnsupportedContentError means the text is not alphabetic English-script
// prose the analyzers can score.
type UnsupportedContentError struct {
	Reason string
}

func (e *UnsupportedContentError) Error() string {
	return "unsupported content: " + e.Reason
}
