package models

// VehicleRecord is one extracted vehicle as reported by the vision model.
// Every field is a free-text string copied display-exact from the listing;
// no numeric typing is enforced at this layer. Absent blocks stay nil so
// they are omitted from the persisted JSON entirely.
type VehicleRecord struct {
	Title          string          `json:"title,omitempty"`
	Year           string          `json:"year,omitempty"`
	Price          string          `json:"price,omitempty"`
	Description    string          `json:"description,omitempty"`
	Specifications *Specifications `json:"specifications,omitempty"`
}

// Specifications holds the structured detail fields of a vehicle listing.
type Specifications struct {
	Make              string      `json:"make,omitempty"`
	Model             string      `json:"model,omitempty"`
	Chassis           string      `json:"chassis,omitempty"`
	Condition         string      `json:"condition,omitempty"`
	StockNumber       string      `json:"stock_number,omitempty"`
	Mileage           string      `json:"mileage,omitempty"`
	PassengerCapacity string      `json:"passenger_capacity,omitempty"`
	Engine            string      `json:"engine,omitempty"`
	Transmission      string      `json:"transmission,omitempty"`
	FuelType          string      `json:"fuel_type,omitempty"`
	ExteriorColor     string      `json:"exterior_color,omitempty"`
	Location          string      `json:"location,omitempty"`
	Dimensions        *Dimensions `json:"dimensions,omitempty"`
	Features          []string    `json:"features,omitempty"`
}

// Dimensions is the physical size block of a vehicle listing.
type Dimensions struct {
	Length string `json:"length,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// StockNumber returns the stock number, tolerating an absent
// specifications block.
func (v VehicleRecord) StockNumber() string {
	if v.Specifications == nil {
		return ""
	}
	return v.Specifications.StockNumber
}

// IdentityKey is the composite key used to deduplicate vehicles across
// sections. Either part may be empty; callers must check Identifiable
// before treating the key as a merge target.
func (v VehicleRecord) IdentityKey() string {
	return v.StockNumber() + "-" + v.Title
}

// Identifiable reports whether the record carries at least one non-blank
// identity field. Records with neither a stock number nor a title are not
// eligible for deduplication: merging them would silently collapse distinct
// vehicles into one.
func (v VehicleRecord) Identifiable() bool {
	return v.StockNumber() != "" || v.Title != ""
}

// MergedResult is the final persisted artifact: all extracted vehicles,
// deduplicated by identity key.
type MergedResult struct {
	Vehicles []VehicleRecord `json:"vehicles"`
}
