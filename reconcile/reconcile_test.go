package reconcile

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/lotlens/lotlens/models"
)

func raw(start, end int, text string) *models.RawExtraction {
	return &models.RawExtraction{StartIndex: start, EndIndex: end, Text: text}
}

func vehicleJSON(stock, title, price string) string {
	b, _ := json.Marshal(map[string]any{
		"vehicles": []map[string]any{
			{
				"title": title,
				"price": price,
				"specifications": map[string]any{
					"stock_number": stock,
				},
			},
		},
	})
	return string(b)
}

func TestStripFences_JSONFence(t *testing.T) {
	fenced := "```json\n{\"vehicles\": []}\n```"
	got := stripFences(fenced)
	want := `{"vehicles": []}`
	if got != want {
		t.Errorf("stripFences(%q) = %q, want %q", fenced, got, want)
	}
}

func TestStripFences_BareFence(t *testing.T) {
	fenced := "```\n{\"vehicles\": []}\n```"
	if got := stripFences(fenced); got != `{"vehicles": []}` {
		t.Errorf("bare fence not stripped, got %q", got)
	}
}

func TestStripFences_NoFence(t *testing.T) {
	plain := `  {"vehicles": []}  `
	if got := stripFences(plain); got != `{"vehicles": []}` {
		t.Errorf("unfenced input mangled, got %q", got)
	}
}

func TestParseVehicles_FencedAndUnfencedAgree(t *testing.T) {
	body := vehicleJSON("S1", "2021 Shuttle Bus", "$45,000")
	unfenced := ParseVehicles(body)
	fenced := ParseVehicles("```json\n" + body + "\n```")
	if !reflect.DeepEqual(unfenced, fenced) {
		t.Errorf("fenced output parsed differently: %+v vs %+v", fenced, unfenced)
	}
	if len(unfenced) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(unfenced))
	}
}

func TestParseVehicles_MalformedJSON(t *testing.T) {
	if got := ParseVehicles("the model rambled instead of emitting JSON"); got != nil {
		t.Errorf("malformed input should yield nil, got %+v", got)
	}
}

func TestParseVehicles_MissingVehiclesField(t *testing.T) {
	if got := ParseVehicles(`{"cars": [{"title": "nope"}]}`); len(got) != 0 {
		t.Errorf("missing vehicles field should yield empty, got %+v", got)
	}
}

func TestMerge_DedupLastWins(t *testing.T) {
	extractions := []*models.RawExtraction{
		raw(0, 3, vehicleJSON("S100", "2022 Transit Van", "$30,000")),
		raw(3, 6, vehicleJSON("S100", "2022 Transit Van", "$28,500")),
	}

	merged := Merge(extractions)
	if len(merged.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle after dedup, got %d", len(merged.Vehicles))
	}
	if merged.Vehicles[0].Price != "$28,500" {
		t.Errorf("last occurrence should win, got price %q", merged.Vehicles[0].Price)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	extractions := []*models.RawExtraction{
		raw(0, 3, vehicleJSON("S1", "Bus A", "$10")),
		nil,
		raw(3, 6, vehicleJSON("S2", "Bus B", "$20")),
		raw(6, 9, vehicleJSON("S1", "Bus A", "$15")),
	}

	first := Merge(extractions)
	second := Merge(extractions)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestMerge_ToleratesNilAndMalformedEntries(t *testing.T) {
	extractions := []*models.RawExtraction{
		nil,
		raw(0, 3, "not json at all"),
		raw(3, 6, vehicleJSON("S7", "2020 Coach", "$99,000")),
		raw(6, 9, "```json\n{broken"),
		nil,
	}

	merged := Merge(extractions)
	if len(merged.Vehicles) != 1 {
		t.Fatalf("expected only the valid section's vehicle, got %d", len(merged.Vehicles))
	}
	if merged.Vehicles[0].Specifications.StockNumber != "S7" {
		t.Errorf("unexpected surviving vehicle: %+v", merged.Vehicles[0])
	}
}

func TestMerge_PreservesFirstSeenOrder(t *testing.T) {
	extractions := []*models.RawExtraction{
		raw(0, 3, vehicleJSON("S1", "Bus A", "$1")),
		raw(3, 6, vehicleJSON("S2", "Bus B", "$2")),
		raw(6, 9, vehicleJSON("S1", "Bus A", "$3")),
	}

	merged := Merge(extractions)
	if len(merged.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(merged.Vehicles))
	}
	if merged.Vehicles[0].Title != "Bus A" || merged.Vehicles[1].Title != "Bus B" {
		t.Errorf("first-seen order not preserved: %+v", merged.Vehicles)
	}
	if merged.Vehicles[0].Price != "$3" {
		t.Errorf("replacement should keep original position with latest value, got %q", merged.Vehicles[0].Price)
	}
}

func TestMerge_KeepsUnidentifiedRecords(t *testing.T) {
	// Two distinct vehicles with neither stock number nor title must both
	// survive instead of silently collapsing into one key.
	body, _ := json.Marshal(map[string]any{
		"vehicles": []map[string]any{
			{"description": "white shuttle, no badge"},
			{"description": "blue shuttle, no badge"},
		},
	})

	merged := Merge([]*models.RawExtraction{raw(0, 3, string(body))})
	if len(merged.Vehicles) != 2 {
		t.Fatalf("unidentified records were merged, got %d vehicles", len(merged.Vehicles))
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	merged := Merge(nil)
	if merged.Vehicles == nil {
		t.Error("Vehicles should be an empty slice, not nil, so the JSON output stays {\"vehicles\": []}")
	}
	if len(merged.Vehicles) != 0 {
		t.Errorf("expected no vehicles, got %d", len(merged.Vehicles))
	}
}
