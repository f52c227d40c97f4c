package hashtags

import (
	"encoding/json"
	"fmt"
	"os"
)

// Stats holds aggregate counts for a merged document.
type Stats struct {
	Categories    int
	Subcategories int
	Hashtags      int
}

// Count tallies categories, subcategories, and hashtags in a document.
// Details without a hashtags list contribute nothing to the hashtag count.
func Count(doc *Document) Stats {
	var stats Stats
	stats.Categories = len(doc.Categories)
	for _, category := range doc.Categories {
		stats.Subcategories += len(category)
		for _, raw := range category {
			var detail subcategoryDetail
			if err := json.Unmarshal(raw, &detail); err != nil {
				continue
			}
			stats.Hashtags += len(detail.Hashtags)
		}
	}
	return stats
}

// CountFile reads a merged document from path and tallies it.
func CountFile(path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return Stats{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Stats{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return Count(&doc), nil
}
