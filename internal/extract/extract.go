// Package extract recovers a single JSON object from free-form model output.
// Model responses routinely wrap the object in prose or a fenced code block;
// the recovery here is a heuristic span selection, not a balanced-bracket
// parse, and is correct only when the text contains at most one top-level
// object.
package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNoObjectFound means the text contains no '{' ... '}' span at all.
	ErrNoObjectFound = errors.New("no JSON object found in text")
	// ErrMalformedObject means a candidate span was located but did not
	// decode as JSON.
	ErrMalformedObject = errors.New("malformed JSON object in text")
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Object locates and decodes the one JSON object embedded in raw. A fenced
// code block takes precedence over the first-'{' / last-'}' span when both
// are present.
func Object(raw string) (map[string]any, error) {
	span, err := span(raw)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, errors.Join(ErrMalformedObject, err)
	}
	return out, nil
}

func span(raw string) (string, error) {
	if m := codeBlockRe.FindStringSubmatch(raw); len(m) > 1 {
		raw = m[1]
	}
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		return raw, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", ErrNoObjectFound
	}
	return raw[start : end+1], nil
}
