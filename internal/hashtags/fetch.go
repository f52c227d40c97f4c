package hashtags

import (
	"strings"
)

// Hashtag is one generated tag with its human-readable uses count ("15M").
type Hashtag struct {
	Tag       string `json:"tag"`
	UsesCount string `json:"uses_count"`
}

// ParseHashtagCSV parses model output in "tag,uses_count" CSV form. The
// first line is treated as a header and dropped; blank and malformed lines
// are skipped rather than failing the whole parse.
func ParseHashtagCSV(text string) []Hashtag {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return nil
	}

	var tags []Hashtag
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			continue
		}
		tag := strings.TrimSpace(parts[0])
		count := strings.TrimSpace(parts[1])
		if tag == "" || count == "" {
			continue
		}
		tags = append(tags, Hashtag{Tag: tag, UsesCount: count})
	}
	return tags
}

// FormatFetched shapes generated hashtags into the nested structure the
// database uses: {group: {category: [tags...]}}.
func FormatFetched(group, category string, tags []Hashtag) map[string]map[string][]Hashtag {
	return map[string]map[string][]Hashtag{
		group: {category: tags},
	}
}
