// Package storage persists the pipeline's artifacts: the per-section audit
// screenshots and the final merged vehicles JSON.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lotlens/lotlens/models"
)

// WriteSectionImage writes one section screenshot as section_<n>.png in dir,
// overwriting any prior run's file. Returns the written path.
func WriteSectionImage(dir string, section int, png []byte) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("section_%d.png", section))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", models.NewPipelineError(
			models.ErrCodeStorage,
			fmt.Sprintf("failed to write section image %d", section),
			err,
		)
	}
	return path, nil
}

// WriteMerged writes the final result as pretty-printed JSON, overwriting
// any prior run's output.
func WriteMerged(path string, result models.MergedResult) error {
	f, err := os.Create(path)
	if err != nil {
		return models.NewPipelineError(models.ErrCodeStorage, "failed to create output file", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return models.NewPipelineError(models.ErrCodeStorage, "failed to encode output JSON", err)
	}
	return nil
}
