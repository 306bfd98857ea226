package apiclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Error is a non-2xx response from the storefront API
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// fieldError covers the shapes validation libraries commonly emit
type fieldError struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Param   string `json:"param"`
	Path    string `json:"path"`
	Field   string `json:"field"`
}

func (f fieldError) text() string {
	if f.Msg != "" {
		return f.Msg
	}
	return f.Message
}

func (f fieldError) name() string {
	switch {
	case f.Field != "":
		return f.Field
	case f.Path != "":
		return f.Path
	default:
		return f.Param
	}
}

type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Detail  json.RawMessage `json:"detail"`
	Errors  json.RawMessage `json:"errors"`
}

// newError normalizes an error payload into a single message. Field error
// lists win over a top-level message so form pages can show every problem.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		e.Message = fallbackMessage(status, body)
		return e
	}

	if msg, fields := parseFieldErrors(payload.Errors); msg != "" {
		e.Message = msg
		e.Fields = fields
		return e
	}

	for _, candidate := range []string{
		payload.Message,
		rawText(payload.Error),
		rawText(payload.Detail),
	} {
		if candidate != "" {
			e.Message = candidate
			return e
		}
	}

	e.Message = fmt.Sprintf("Request failed with status %d", status)
	return e
}

func parseFieldErrors(raw json.RawMessage) (string, map[string]string) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var list []fieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		fields := make(map[string]string)
		for _, fe := range list {
			text := fe.text()
			if text == "" {
				continue
			}
			msgs = append(msgs, text)
			if name := fe.name(); name != "" {
				fields[name] = text
			}
		}
		if len(fields) == 0 {
			fields = nil
		}
		return strings.Join(msgs, ", "), fields
	}

	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil {
		return strings.Join(strs, ", "), nil
	}

	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil && len(byField) > 0 {
		names := make([]string, 0, len(byField))
		for name := range byField {
			names = append(names, name)
		}
		sort.Strings(names)
		msgs := make([]string, 0, len(names))
		for _, name := range names {
			msgs = append(msgs, byField[name])
		}
		return strings.Join(msgs, ", "), byField
	}

	return "", nil
}

// rawText returns a JSON string value as-is, or a nested message field
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func fallbackMessage(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" || strings.HasPrefix(text, "<") {
		return fmt.Sprintf("Request failed with status %d", status)
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
