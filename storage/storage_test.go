package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lotlens/lotlens/models"
)

func TestWriteMerged_PrettyPrintedAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	result := models.MergedResult{
		Vehicles: []models.VehicleRecord{
			{
				Title: "2021 Ford E-450 Shuttle",
				Price: "$64,500",
				Specifications: &models.Specifications{
					StockNumber: "ST-441",
					Features:    []string{"wheelchair lift", "rear luggage"},
				},
			},
		},
	}

	if err := WriteMerged(path, result); err != nil {
		t.Fatalf("WriteMerged failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"vehicles\"") {
		t.Error("output is not pretty-printed")
	}

	var back models.MergedResult
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(back.Vehicles) != 1 || back.Vehicles[0].Specifications.StockNumber != "ST-441" {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestWriteMerged_OmitsAbsentBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	result := models.MergedResult{
		Vehicles: []models.VehicleRecord{
			{Title: "2018 Chevy Express", Price: "$29,000"},
			{
				Title:          "2020 Ford E-350",
				Specifications: &models.Specifications{StockNumber: "ST-9"},
			},
		},
	}

	if err := WriteMerged(path, result); err != nil {
		t.Fatalf("WriteMerged failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Count(string(raw), `"specifications"`) != 1 {
		t.Error("a vehicle without specifications should omit the block entirely")
	}
	if strings.Contains(string(raw), `"dimensions"`) {
		t.Error("absent dimensions should not appear as an empty object")
	}
}

func TestWriteMerged_OverwritesPriorRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	if err := os.WriteFile(path, []byte(`{"vehicles": [{"title": "stale"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteMerged(path, models.MergedResult{Vehicles: []models.VehicleRecord{}}); err != nil {
		t.Fatalf("WriteMerged failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "stale") {
		t.Error("prior run's output survived an overwrite")
	}
}

func TestWriteSectionImage_NamedByIndex(t *testing.T) {
	dir := t.TempDir()
	png := []byte{0x89, 'P', 'N', 'G'}

	path, err := WriteSectionImage(dir, 2, png)
	if err != nil {
		t.Fatalf("WriteSectionImage failed: %v", err)
	}
	if filepath.Base(path) != "section_2.png" {
		t.Errorf("unexpected artifact name %q", filepath.Base(path))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(got) != string(png) {
		t.Error("artifact bytes differ from the capture")
	}
}

func TestWriteSectionImage_BadDirectory(t *testing.T) {
	_, err := WriteSectionImage(filepath.Join(t.TempDir(), "missing"), 1, []byte("png"))
	if err == nil {
		t.Fatal("expected an error for a nonexistent directory")
	}
	var perr *models.PipelineError
	if !errors.As(err, &perr) || perr.Code != models.ErrCodeStorage {
		t.Errorf("expected %s, got %v", models.ErrCodeStorage, err)
	}
}
