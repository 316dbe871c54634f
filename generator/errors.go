package generator

import "fmt"

// InputError reports a bad caller-supplied field, detected before any model
// call is made.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// ParseError reports that the model response could not be interpreted as the
// expected JSON shape, even after fallback extraction.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// ValidationError reports syntactically valid JSON that is missing fields the
// operation requires.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response missing required field %q", e.Field)
}

// UpstreamError wraps a failure of the model call itself.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm call failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
