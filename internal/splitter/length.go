package splitter

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenLength builds a LengthFunc that measures text in model tokens
// using the tiktoken encoding for the given model (e.g. "gpt-4o-mini").
// Useful when chunk budgets should track embedding-model token limits
// rather than characters.
func TokenLength(model string) (LengthFunc, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for %s: %w", model, err)
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}

// WithTokenLength measures chunk sizes in model tokens. It is a
// convenience wrapper combining TokenLength and WithLengthFunc.
func WithTokenLength(model string) (Option, error) {
	fn, err := TokenLength(model)
	if err != nil {
		return nil, err
	}
	return WithLengthFunc(fn), nil
}
