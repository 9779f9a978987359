package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShoppingListItem_PriceSource(t *testing.T) {
	tests := []struct {
		name     string
		item     ShoppingListItem
		source   PriceSource
		selected float64
	}{
		{
			name:     "offer wins over manual",
			item:     ShoppingListItem{Price: ptr(30.0), OfferPrice: ptr(19.9)},
			source:   PriceFromOffer,
			selected: 19.9,
		},
		{
			name:     "manual only",
			item:     ShoppingListItem{Price: ptr(30.0)},
			source:   PriceManual,
			selected: 30,
		},
		{
			name:     "free offer is still an offer",
			item:     ShoppingListItem{OfferPrice: ptr(0.0)},
			source:   PriceFromOffer,
			selected: 0,
		},
		{
			name:   "unpriced",
			item:   ShoppingListItem{},
			source: PriceUnpriced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.source, tt.item.PriceSource())
			assert.InDelta(t, tt.selected, tt.item.SelectedPrice(), 1e-9)
			assert.Equal(t, tt.source == PriceUnpriced, tt.item.Unpriced())
		})
	}
}

func TestShoppingList_Helpers(t *testing.T) {
	list := &ShoppingList{Items: []ShoppingListItem{
		{ID: "a", Checked: true},
		{ID: "b"},
		{ID: "c"},
	}}

	item, ok := list.Item("b")
	assert.True(t, ok)
	assert.Equal(t, "b", item.ID)

	_, ok = list.Item("z")
	assert.False(t, ok)

	assert.Equal(t, 2, list.UncheckedCount())
}

func TestRoundCents(t *testing.T) {
	assert.InDelta(t, 0.3, RoundCents(0.1+0.2), 1e-12)
	assert.InDelta(t, 10.01, RoundCents(10.005000001), 1e-12)
	assert.InDelta(t, 12.0, RoundCents(11.999), 1e-12)
}
