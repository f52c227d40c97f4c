package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"csv fence", "```csv\ntag,uses_count\n#go,10M\n```", "tag,uses_count\n#go,10M"},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"opening fence only", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON_RawAndFenced(t *testing.T) {
	raw, err := DecodeJSON(`{"a":1}`)
	if err != nil {
		t.Fatalf("DecodeJSON raw: %v", err)
	}

	fenced, err := DecodeJSON("```json\n{\"a\":1}\n```")
	if err != nil {
		t.Fatalf("DecodeJSON fenced: %v", err)
	}

	if string(raw) != string(fenced) {
		t.Fatalf("fenced parse %q differs from raw parse %q", fenced, raw)
	}
}

func TestDecodeJSON_ParseError(t *testing.T) {
	long := "not json at all " + strings.Repeat("x", 1000)
	_, err := DecodeJSON(long)
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if len(parseErr.Snippet) != parseSnippetLen {
		t.Fatalf("snippet length = %d, want %d", len(parseErr.Snippet), parseSnippetLen)
	}
	if !strings.HasPrefix(long, parseErr.Snippet) {
		t.Fatalf("snippet is not a prefix of the raw output")
	}
}
