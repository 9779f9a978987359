package model

import (
	"math"
	"time"
)

// PriceSource tells where an item's selected price came from.
type PriceSource string

const (
	// PriceFromOffer means the item is priced by a matched store offer.
	PriceFromOffer PriceSource = "offer"
	// PriceManual means the item carries a supplied or estimated price.
	PriceManual PriceSource = "manual"
	// PriceUnpriced means the item contributes nothing to the total.
	PriceUnpriced PriceSource = "unpriced"
)

// ItemSource records what produced a shopping list item.
type ItemSource string

const (
	// SourceMealPlan items come from meal-plan ingredients.
	SourceMealPlan ItemSource = "meal_plan"
	// SourceStaple items come from matched pantry staples.
	SourceStaple ItemSource = "staple"
	// SourceManual items were added by hand.
	SourceManual ItemSource = "manual"
)

// ShoppingListItem is a priced, checkable purchase-intent line.
type ShoppingListItem struct {
	Price      *float64
	OfferPrice *float64
	ID         string // stable across edits
	Name       string
	Unit       string
	Store      string // chain name of the matched offer, if any
	OfferID    string
	Source     ItemSource
	Amount     float64
	Checked    bool
	IsEstimate bool
}

// PriceSource classifies the item into exactly one pricing state.
func (i ShoppingListItem) PriceSource() PriceSource {
	switch {
	case i.OfferPrice != nil:
		return PriceFromOffer
	case i.Price != nil:
		return PriceManual
	default:
		return PriceUnpriced
	}
}

// SelectedPrice is the price the item contributes to the list total.
func (i ShoppingListItem) SelectedPrice() float64 {
	switch i.PriceSource() {
	case PriceFromOffer:
		return *i.OfferPrice
	case PriceManual:
		return *i.Price
	default:
		return 0
	}
}

// Unpriced reports whether the item has neither an offer nor a manual price.
func (i ShoppingListItem) Unpriced() bool {
	return i.PriceSource() == PriceUnpriced
}

// ShoppingList is a household's mutable list of items.
// TotalPrice is always derived from the items.
type ShoppingList struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	HouseholdID string
	MealPlanID  string
	Items       []ShoppingListItem
	TotalPrice  float64
	Completed   bool
}

// Item returns the item with the given id.
func (l *ShoppingList) Item(id string) (ShoppingListItem, bool) {
	for _, item := range l.Items {
		if item.ID == id {
			return item, true
		}
	}
	return ShoppingListItem{}, false
}

// UncheckedCount returns how many items are still to buy.
func (l *ShoppingList) UncheckedCount() int {
	n := 0
	for _, item := range l.Items {
		if !item.Checked {
			n++
		}
	}
	return n
}

// RoundCents rounds a monetary amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
