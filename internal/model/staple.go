package model

import (
	"fmt"
	"strings"
)

// StapleCategory groups pantry staples for display.
type StapleCategory string

const (
	// CategorySpices covers salt, pepper and dried herbs.
	CategorySpices StapleCategory = "spices"
	// CategoryOilFat covers cooking oils, butter and similar fats.
	CategoryOilFat StapleCategory = "oil_fat"
	// CategoryBaking covers flour, sugar, yeast and baking powder.
	CategoryBaking StapleCategory = "baking"
	// CategoryPreserves covers canned, jarred and long-life goods.
	CategoryPreserves StapleCategory = "preserves"
	// CategoryOther is everything else.
	CategoryOther StapleCategory = "other"
)

// StapleCategories lists the categories in display order.
var StapleCategories = []StapleCategory{
	CategorySpices,
	CategoryOilFat,
	CategoryBaking,
	CategoryPreserves,
	CategoryOther,
}

// ParseStapleCategory converts a stored value to a StapleCategory.
func ParseStapleCategory(s string) (StapleCategory, error) {
	c := StapleCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range StapleCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown staple category %q", s)
}

// PantryStaple is a recurring household consumable, independent of any meal plan.
type PantryStaple struct {
	ID       string
	Name     string
	Category StapleCategory
	Icon     string
}

// StapleOfferMatch pairs a staple with the offer selected for it.
// Matches are recomputed on every run and never persisted.
type StapleOfferMatch struct {
	Staple PantryStaple
	Offer  Offer
}

// GroupStaplesByCategory buckets staples by category, keeping input order within a bucket.
func GroupStaplesByCategory(staples []PantryStaple) map[StapleCategory][]PantryStaple {
	groups := make(map[StapleCategory][]PantryStaple)
	for _, s := range staples {
		cat := s.Category
		if cat == "" {
			cat = CategoryOther
		}
		groups[cat] = append(groups[cat], s)
	}
	return groups
}
