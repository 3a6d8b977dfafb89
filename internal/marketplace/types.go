package marketplace

// searchAPIResponse models the fields of the upstream search response body
// that the client consumes. The item list lives at data.section.payload.items
// and the continuation token at meta.next_page.
type searchAPIResponse struct {
	Data *responseData `json:"data"`
	Meta *responseMeta `json:"meta"`
}

type responseData struct {
	Section *responseSection `json:"section"`
}

type responseSection struct {
	Payload *sectionPayload `json:"payload"`
}

type sectionPayload struct {
	Items []ItemPayload `json:"items"`
}

type responseMeta struct {
	NextPage        string `json:"next_page"`
	NextSectionType string `json:"next_section_type"`
}

// organicSection is the section type of regular search results. A
// continuation token only counts when the next section is still organic;
// anything else means the result chain has ended.
const organicSection = "organic_search_results"

// ItemPayload represents a single raw item from the upstream search response.
type ItemPayload struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	WebSlug     string          `json:"web_slug"`
	Price       PricePayload    `json:"price"`
	Reserved    ReservedPayload `json:"reserved"`
}

// PricePayload holds upstream price information.
type PricePayload struct {
	Amount *float64 `json:"amount"`
}

// ReservedPayload marks items already reserved by another buyer.
type ReservedPayload struct {
	Flag bool `json:"flag"`
}
