package schema

// PlaceQuery is a single search against a place directory
type PlaceQuery struct {
	Query        string
	CountryCodes string
	Limit        int
}

// RawPlace is a directory search result before parsing.
// Coordinates are strings because that is how Nominatim returns them.
type RawPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Place is a map marker
type Place struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Category  string   `json:"category"`
	Kind      string   `json:"kind"`
	Distance  *float64 `json:"distance_meters,omitempty"`
}
