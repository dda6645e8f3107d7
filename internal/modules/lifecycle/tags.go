package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeTags accepts either a comma-separated JSON string or a JSON list
// of strings and returns the trimmed, non-empty, de-duplicated tags in
// first-seen order. Empty input yields an empty list.
func NormalizeTags(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}, nil
	}

	var candidates []string
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: tags: %v", ErrValidation, err)
		}
		candidates = strings.Split(s, ",")
	case '[':
		if err := json.Unmarshal(raw, &candidates); err != nil {
			return nil, fmt.Errorf("%w: tags must be a list of strings", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: tags must be a string or a list", ErrValidation)
	}

	return dedupe(candidates), nil
}

func dedupe(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, len(candidates))
	for _, t := range candidates {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
