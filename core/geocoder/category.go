// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package geocoder

// Category is the travel-oriented grouping derived from a place record's
// class and type fields.
type Category string

// Known categories. The match order below and the "other" fallback are part
// of the contract.
const (
	CategoryHospital   Category = "hospital"
	CategoryHotel      Category = "hotel"
	CategoryRestaurant Category = "restaurant"
	CategoryAttraction Category = "attraction"
	CategoryPharmacy   Category = "pharmacy"
	CategoryPolice     Category = "police"
	CategoryEmbassy    Category = "embassy"
	CategoryOther      Category = "other"
)

// categoryKeywords maps each category to the record types it claims,
// checked in the order of the categories slice.
var (
	categories = []Category{
		CategoryHospital,
		CategoryHotel,
		CategoryRestaurant,
		CategoryAttraction,
		CategoryPharmacy,
		CategoryPolice,
		CategoryEmbassy,
	}

	categoryKeywords = map[Category][]string{
		CategoryHospital:   {"hospital", "clinic"},
		CategoryHotel:      {"hotel", "hostel", "guest_house"},
		CategoryRestaurant: {"restaurant", "cafe", "fast_food"},
		CategoryAttraction: {"attraction", "museum", "monument"},
		CategoryPharmacy:   {"pharmacy"},
		CategoryPolice:     {"police"},
		CategoryEmbassy:    {"embassy"},
	}
)

// CategoryFor maps a geocoder record's class and type to a category using
// the fixed keyword table.
//
// Records of class "tourism" whose type no category claims count as hotels
// (lodging dominates that class upstream); everything else unclaimed is
// CategoryOther.
func CategoryFor(class, placeType string) Category {
	for _, category := range categories {
		for _, keyword := range categoryKeywords[category] {
			if placeType == keyword {
				return category
			}
		}
	}

	if class == "tourism" {
		return CategoryHotel
	}

	return CategoryOther
}
