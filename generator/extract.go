package generator

import (
	"encoding/json"
	"strings"
)

// placeholderTweet stands in for array elements that are not strings, so a
// single malformed element does not sink the whole thread.
const placeholderTweet = "[invalid tweet]"

// ExtractArray parses a JSON array out of raw model output. It tries the
// whole text first, then falls back to the slice from the first '[' through
// the last ']', since models like to wrap the payload in prose despite being
// told not to.
func ExtractArray(raw string) ([]any, error) {
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return arr, nil
	}
	sub, ok := sliceBetween(raw, '[', ']')
	if !ok {
		return nil, &ParseError{Reason: "no valid JSON found in model response"}
	}
	if err := json.Unmarshal([]byte(sub), &arr); err != nil {
		return nil, &ParseError{Reason: "failed to parse extracted JSON"}
	}
	return arr, nil
}

// ExtractObject is ExtractArray's sibling for object-shaped responses.
func ExtractObject(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, nil
	}
	sub, ok := sliceBetween(raw, '{', '}')
	if !ok {
		return nil, &ParseError{Reason: "no valid JSON found in model response"}
	}
	if err := json.Unmarshal([]byte(sub), &obj); err != nil {
		return nil, &ParseError{Reason: "failed to parse extracted JSON"}
	}
	return obj, nil
}

func sliceBetween(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// stringsOrPlaceholder coerces a decoded JSON array into tweets, swapping
// non-string elements for a placeholder instead of failing the operation.
func stringsOrPlaceholder(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			s = placeholderTweet
		}
		out = append(out, s)
	}
	return out
}
