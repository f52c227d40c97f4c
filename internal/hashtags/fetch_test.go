package hashtags

import (
	"testing"
)

func TestParseHashtagCSV(t *testing.T) {
	text := "tag,uses_count\n#travel,12M\n#wanderlust, 8M \n\nmalformed line\n#food,3B"
	tags := ParseHashtagCSV(text)

	if len(tags) != 3 {
		t.Fatalf("parsed %d tags, want 3: %v", len(tags), tags)
	}
	if tags[0].Tag != "#travel" || tags[0].UsesCount != "12M" {
		t.Fatalf("first tag = %+v", tags[0])
	}
	if tags[1].UsesCount != "8M" {
		t.Fatalf("whitespace not trimmed: %+v", tags[1])
	}
}

func TestParseHashtagCSV_HeaderOnly(t *testing.T) {
	if tags := ParseHashtagCSV("tag,uses_count"); tags != nil {
		t.Fatalf("expected nil for header-only input, got %v", tags)
	}
	if tags := ParseHashtagCSV(""); tags != nil {
		t.Fatalf("expected nil for empty input, got %v", tags)
	}
}

func TestFormatFetched(t *testing.T) {
	tags := []Hashtag{{Tag: "#go", UsesCount: "1M"}}
	got := FormatFetched("Popular", "Programming", tags)

	category, ok := got["Popular"]
	if !ok {
		t.Fatal("missing Popular group")
	}
	if len(category["Programming"]) != 1 || category["Programming"][0].Tag != "#go" {
		t.Fatalf("unexpected structure: %v", got)
	}
}
