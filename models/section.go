package models

// ListingGeometry is the vertical bounding geometry of one rendered listing,
// in document coordinates. Produced once per run by the locator, in DOM
// order (ascending Top as encountered, not guaranteed globally sorted).
type ListingGeometry struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Bottom float64 `json:"bottom"`
}

// SectionDimensions is the padded capture rectangle of one section, in
// document coordinates.
type SectionDimensions struct {
	StartY float64 `json:"startY"`
	EndY   float64 `json:"endY"`
	Height float64 `json:"height"`
}

// SectionCapture is one screenshot of a contiguous batch of listings.
// It is owned by a single pipeline iteration: written to disk as an audit
// artifact, handed to the vision extractor, then discarded.
type SectionCapture struct {
	// Screenshot is the clipped PNG image of the section rectangle.
	Screenshot []byte

	// StartIndex and EndIndex are the half-open listing index range
	// [StartIndex, EndIndex) this section covers.
	StartIndex int
	EndIndex   int

	// ItemCount is EndIndex - StartIndex.
	ItemCount int

	Dimensions SectionDimensions
}

// RawExtraction is the unparsed text output of one vision call. The text is
// expected to contain JSON shaped like {"vehicles": [...]} but the model
// gives no guarantee; the reconciler parses it tolerantly.
type RawExtraction struct {
	StartIndex int
	EndIndex   int
	Text       string
}
