// Package match pairs pantry staples and ingredient names with store offers.
package match

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/Veraticus/larder/internal/model"
)

// Matcher selects at most one offer per name using a symmetric substring test.
//
// Offers must already be in the caller's preferred order (price ascending with a
// stable tie-break); the first matching offer wins, so the order decides the outcome.
// The test is deliberately permissive: "salt" matches any product containing "salt",
// and a short product title matches a longer staple name that contains it.
type Matcher struct{}

// NewMatcher creates a new matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match returns one match per staple that has a matching offer, in staple order.
// Staples without a match are omitted. An offer may serve several staples.
func (m *Matcher) Match(staples []model.PantryStaple, offers []model.Offer) []model.StapleOfferMatch {
	idx := newOfferIndex(offers)

	var matches []model.StapleOfferMatch
	for _, staple := range staples {
		if offer, ok := idx.first(staple.Name); ok {
			matches = append(matches, model.StapleOfferMatch{
				Staple: staple,
				Offer:  offer,
			})
		}
	}
	return matches
}

// MatchNames applies the same rule to free-form names such as recipe ingredients.
// The result maps the position in names to the chosen offer.
func (m *Matcher) MatchNames(names []string, offers []model.Offer) map[int]model.Offer {
	idx := newOfferIndex(offers)

	matched := make(map[int]model.Offer)
	for i, name := range names {
		if offer, ok := idx.first(name); ok {
			matched[i] = offer
		}
	}
	return matched
}

// Unmatched returns the staples that did not receive an offer, in input order.
func Unmatched(staples []model.PantryStaple, matches []model.StapleOfferMatch) []model.PantryStaple {
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[m.Staple.ID] = struct{}{}
	}

	var missing []model.PantryStaple
	for _, s := range staples {
		if _, ok := seen[s.ID]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// offerIndex holds offers with their case-folded product names.
type offerIndex struct {
	fold   cases.Caser
	offers []model.Offer
	names  []string
}

func newOfferIndex(offers []model.Offer) *offerIndex {
	// cases.Caser is stateful, so each run gets its own.
	idx := &offerIndex{
		fold:   cases.Fold(),
		offers: offers,
		names:  make([]string, len(offers)),
	}
	for i, o := range offers {
		idx.names[i] = idx.foldName(o.ProductName)
	}
	return idx
}

func (idx *offerIndex) foldName(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return idx.fold.String(s)
}

// first returns the earliest offer whose name contains, or is contained in, name.
func (idx *offerIndex) first(name string) (model.Offer, bool) {
	needle := idx.foldName(name)
	if needle == "" {
		return model.Offer{}, false
	}

	for i, product := range idx.names {
		if product == "" {
			continue
		}
		if strings.Contains(product, needle) || strings.Contains(needle, product) {
			return idx.offers[i], true
		}
	}
	return model.Offer{}, false
}
