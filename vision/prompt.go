package vision

import "fmt"

// promptTemplate is the fixed extraction prompt. The %s is the section's
// 1-based display range ("vehicles 4 through 6"); it only gives the model
// context, nothing downstream parses it back out.
const promptTemplate = `This screenshot shows a section of a vehicle dealer's inventory page (%s).

Extract every vehicle listing visible in the image and return ONLY valid JSON in this exact shape, with no markdown fences and no commentary:

{
  "vehicles": [
    {
      "title": "",
      "year": "",
      "price": "",
      "description": "",
      "specifications": {
        "make": "",
        "model": "",
        "chassis": "",
        "condition": "",
        "stock_number": "",
        "mileage": "",
        "passenger_capacity": "",
        "engine": "",
        "transmission": "",
        "fuel_type": "",
        "exterior_color": "",
        "location": "",
        "dimensions": { "length": "", "width": "", "height": "" },
        "features": []
      }
    }
  ]
}

Rules:
- Copy values exactly as displayed, including currency symbols and units.
- Omit any field that is not visible rather than guessing.
- Include partially visible listings only if their title is readable.`

// buildPrompt renders the extraction prompt for the listings in the
// half-open index range [start, end), converted to a 1-based display range.
func buildPrompt(start, end int) string {
	var rangeText string
	if end-start == 1 {
		rangeText = fmt.Sprintf("vehicle %d", start+1)
	} else {
		rangeText = fmt.Sprintf("vehicles %d through %d", start+1, end)
	}
	return fmt.Sprintf(promptTemplate, rangeText)
}
