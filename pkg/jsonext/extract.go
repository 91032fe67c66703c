// Package jsonext recovers structured JSON from raw model output, which is
// not reliably well-formed even when the prompt demands it. Responses come
// back wrapped in markdown fences, prefixed with prose, or both.
package jsonext

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedOutput is returned when no balanced JSON object or array can
// be located in the text.
var ErrMalformedOutput = errors.New("no valid JSON found in model output")

var fenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Extract locates the JSON payload inside raw text and returns it verbatim.
// Fenced code blocks take precedence; otherwise the outermost {...} or
// [...] span is used.
func Extract(raw string) (json.RawMessage, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return nil, ErrMalformedOutput
	}

	if m := fenceRegex.FindStringSubmatch(clean); m != nil {
		clean = strings.TrimSpace(m[1])
	}

	if candidate, ok := outermostSpan(clean); ok {
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}

	return nil, ErrMalformedOutput
}

// ExtractInto unmarshals the extracted payload into v.
func ExtractInto(raw string, v any) error {
	payload, err := Extract(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return ErrMalformedOutput
	}
	return nil
}

// outermostSpan returns the widest {...} or [...] substring, whichever
// opens first.
func outermostSpan(s string) (string, bool) {
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")

	start, closer := objStart, "}"
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start < 0 {
		return "", false
	}

	end := strings.LastIndex(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
