package activity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shuv1824/weatherwise/internal/types"
)

// indoorTypes maps an OSM place type to its indoor flag. Types not listed are outdoor.
var indoorTypes = map[string]bool{
	types.CategoryMuseum:     true,
	types.CategoryTheatre:    true,
	types.CategoryCinema:     true,
	types.CategoryLibrary:    true,
	types.CategoryMall:       true,
	types.CategoryGallery:    true,
	types.CategoryPark:       false,
	types.CategoryRestaurant: false,
	types.CategoryCafe:       false,
	types.CategoryGym:        false,
}

// DefaultCategories are searched when a request names none
var DefaultCategories = []string{
	types.CategoryMuseum,
	types.CategoryTheatre,
	types.CategoryCinema,
	types.CategoryLibrary,
	types.CategoryMall,
	types.CategoryGallery,
	types.CategoryPark,
	types.CategoryRestaurant,
	types.CategoryCafe,
	types.CategoryGym,
}

// IsIndoor classifies an OSM place type
func IsIndoor(osmType string) bool {
	return indoorTypes[types.NormalizeCategory(osmType)]
}

// KnownCategory reports whether category is searchable
func KnownCategory(category string) bool {
	_, ok := indoorTypes[types.NormalizeCategory(category)]
	return ok
}

// ParseCategories turns a comma separated list into normalized, de-duplicated
// categories. An empty list yields DefaultCategories.
func ParseCategories(raw string) ([]string, error) {
	var categories []string
	for _, part := range strings.Split(raw, ",") {
		category := types.NormalizeCategory(part)
		if category == "" || slices.Contains(categories, category) {
			continue
		}
		if !KnownCategory(category) {
			return nil, types.NewAppError(
				types.ErrCodeValidationUnknownCategory,
				fmt.Sprintf("unknown category %q", category),
				nil,
			)
		}
		categories = append(categories, category)
	}

	if len(categories) == 0 {
		return slices.Clone(DefaultCategories), nil
	}
	return categories, nil
}
