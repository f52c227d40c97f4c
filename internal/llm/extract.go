package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseSnippetLen bounds how much raw model output a ParseError carries.
const parseSnippetLen = 500

// ParseError reports model output that could not be parsed as JSON even
// after fence stripping. Snippet holds the start of the raw output.
type ParseError struct {
	Err     error
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model output as JSON: %v (raw start: %s)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripFences removes a Markdown code fence wrapper (```json ... ``` or
// ``` ... ```) if the text is wrapped in one.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	// Drop the opening fence line, language tag included.
	if idx := strings.Index(t, "\n"); idx != -1 {
		t = t[idx+1:]
	} else {
		t = ""
	}
	// Drop the closing fence.
	if idx := strings.LastIndex(t, "```"); idx != -1 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

// DecodeJSON parses raw model output as a JSON value. The raw text is tried
// first, then the fence-stripped text; if both fail, a ParseError carrying
// the start of the raw output is returned.
func DecodeJSON(raw string) (json.RawMessage, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return json.RawMessage(raw), nil
	}

	stripped := StripFences(raw)
	var err error
	if stripped != raw {
		if err = json.Unmarshal([]byte(stripped), &value); err == nil {
			return json.RawMessage(stripped), nil
		}
	} else {
		err = json.Unmarshal([]byte(raw), &value)
	}

	snippet := raw
	if len(snippet) > parseSnippetLen {
		snippet = snippet[:parseSnippetLen]
	}
	return nil, &ParseError{Err: err, Snippet: snippet}
}
