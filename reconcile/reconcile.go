// Package reconcile turns the per-section raw model outputs into one
// deduplicated vehicle list. Everything here is tolerant: nil sections,
// fenced output, and malformed JSON all contribute zero vehicles instead of
// failing the run.
package reconcile

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/lotlens/lotlens/models"
)

// vehicleList mirrors the JSON envelope the prompt asks the model for.
type vehicleList struct {
	Vehicles []models.VehicleRecord `json:"vehicles"`
}

// stripFences removes a Markdown code-fence wrapper from model output, so
// "```json\n{...}\n```" parses identically to the bare object.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseVehicles extracts the vehicles array from one section's raw output.
// Parse failures and a missing vehicles field both yield nil; no error ever
// crosses this boundary.
func ParseVehicles(raw string) []models.VehicleRecord {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil
	}

	var list vehicleList
	if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
		slog.Warn("section output is not parseable JSON, contributing zero vehicles",
			"error", err)
		return nil
	}
	return list.Vehicles
}

// Merge flattens all section extractions in order and deduplicates by
// identity key (stock_number + "-" + title). The last occurrence of a key
// wins, while the first occurrence fixes the record's position in the
// output. Records with neither a stock number nor a title are kept verbatim
// rather than merged — collapsing distinct unidentified vehicles into one
// would silently lose data.
func Merge(extractions []*models.RawExtraction) models.MergedResult {
	ordered := make([]models.VehicleRecord, 0)
	position := make(map[string]int)

	for _, ex := range extractions {
		if ex == nil {
			continue
		}
		for _, v := range ParseVehicles(ex.Text) {
			if !v.Identifiable() {
				slog.Warn("vehicle has no stock number or title, keeping without dedup",
					"startIndex", ex.StartIndex)
				ordered = append(ordered, v)
				continue
			}

			key := v.IdentityKey()
			if i, seen := position[key]; seen {
				ordered[i] = v
				continue
			}
			position[key] = len(ordered)
			ordered = append(ordered, v)
		}
	}

	return models.MergedResult{Vehicles: ordered}
}
