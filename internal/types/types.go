package types

import "strings"

// Weather is a single point-in-time observation for a location
type Weather struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"` // Celsius
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`  // Percent
	WindSpeed   float64 `json:"windSpeed"` // m/s
}

// Activity is a point of interest returned by the place search
type Activity struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Indoor    bool    `json:"indoor"`
}

// Recommendation is a scored activity. Activity is shared with the catalog result.
type Recommendation struct {
	Activity *Activity `json:"activity"`
	Score    int       `json:"score"`
	Reason   string    `json:"reason"`
}

// Category tags. Categories are always lower case once they leave the catalog provider.
const (
	CategoryMuseum     = "museum"
	CategoryTheatre    = "theatre"
	CategoryCinema     = "cinema"
	CategoryLibrary    = "library"
	CategoryMall       = "mall"
	CategoryGallery    = "gallery"
	CategoryPark       = "park"
	CategoryRestaurant = "restaurant"
	CategoryCafe       = "cafe"
	CategoryGym        = "gym"
)

// NormalizeCategory returns the canonical form of a category or OSM type tag
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type Location struct {
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
	Long float64 `json:"lon" validate:"min=-180,max=180"`
}

// OpenWeatherResponse represents the current weather API response
type OpenWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// NominatimPlace is one element of the Nominatim search response.
// Nominatim encodes coordinates as strings.
type NominatimPlace struct {
	PlaceID     int    `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	Class       string `json:"class"`
}

// APIInfo is returned by the service info endpoint
type APIInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Details string `json:"details"`
}
