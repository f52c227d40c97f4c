package hashtags

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SortCategories rewrites the merged document at inputPath to outputPath with
// categories in alphabetical order. encoding/json writes object keys sorted,
// so a decode/encode round trip normalizes the ordering; the value here is
// the explicit validation and the stable output location.
func SortCategories(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		}
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", inputPath, err)
	}
	if doc.Categories == nil {
		return fmt.Errorf("%w: %s", ErrMalformedInput, inputPath)
	}

	encoded, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sorted document: %w", err)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write sorted document: %w", err)
	}
	return nil
}
