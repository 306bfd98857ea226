package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList accepts either a bare JSON array or an object holding the array under key
func decodeList[T any](data json.RawMessage, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	inner, ok := wrapped[key]
	if !ok {
		return []T{}, nil
	}
	return decodeList[T](inner, key)
}

// decodeObject accepts either the object itself or an object wrapping it under key
func decodeObject[T any](data json.RawMessage, key string) (*T, error) {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	target := json.RawMessage(data)
	if inner, ok := wrapped[key]; ok && len(inner) > 0 && inner[0] == '{' {
		target = inner
	}

	var out T
	if err := json.Unmarshal(target, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &out, nil
}
