// Package offers selects the store offers a household may use on a given day.
package offers

import (
	"sort"
	"time"

	"github.com/Veraticus/larder/internal/model"
)

// Eligible reports whether an offer belongs to one of the chains, is active,
// and is valid on day. Both ends of the validity window are inclusive.
func Eligible(offer model.Offer, chains map[string]struct{}, day time.Time) bool {
	if !offer.IsActive {
		return false
	}
	if _, ok := chains[offer.ChainID]; !ok {
		return false
	}
	return offer.ValidOn(day)
}

// Filter returns the eligible offers sorted by price ascending, ties broken by ID.
// The input slice is not modified.
func Filter(all []model.Offer, chainIDs []string, day time.Time) []model.Offer {
	chains := chainSet(chainIDs)
	if len(chains) == 0 {
		return []model.Offer{}
	}

	eligible := make([]model.Offer, 0, len(all))
	for _, o := range all {
		if Eligible(o, chains, day) {
			eligible = append(eligible, o)
		}
	}
	SortByPrice(eligible)
	return eligible
}

// SortByPrice orders offers cheapest first with a stable ID tie-break.
// The matcher takes the first hit, so this order decides which offer a staple gets.
func SortByPrice(offers []model.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Price != offers[j].Price {
			return offers[i].Price < offers[j].Price
		}
		return offers[i].ID < offers[j].ID
	})
}

func chainSet(chainIDs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(chainIDs))
	for _, id := range chainIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
