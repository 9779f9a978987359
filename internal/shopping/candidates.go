package shopping

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/larder/internal/model"
)

// itemNamespace seeds deterministic item ids so repeated runs update rather than duplicate.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Veraticus/larder/items"))

// ItemID derives a stable item id from its provenance and a source-specific key.
func ItemID(source model.ItemSource, key string) string {
	return uuid.NewSHA1(itemNamespace, []byte(string(source)+":"+key)).String()
}

// FromStapleMatches turns matched staples into offer-priced candidates.
func FromStapleMatches(matches []model.StapleOfferMatch) []Candidate {
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		price := m.Offer.Price
		candidates = append(candidates, Candidate{
			ID:         ItemID(model.SourceStaple, m.Staple.ID),
			Name:       m.Staple.Name,
			Amount:     1,
			OfferPrice: &price,
			OfferID:    m.Offer.ID,
			Store:      m.Offer.ChainName,
			Source:     model.SourceStaple,
		})
	}
	return candidates
}

// PlanIngredients flattens a plan's recipes into one line per ingredient.
// Lines with the same name and unit are combined, summing amounts and estimates.
func PlanIngredients(plan *model.MealPlan) []model.Ingredient {
	if plan == nil {
		return nil
	}

	var out []model.Ingredient
	index := make(map[string]int)
	for _, recipe := range plan.Recipes {
		for _, ing := range recipe.Ingredients {
			if strings.TrimSpace(ing.Name) == "" {
				continue
			}
			key := ingredientKey(ing)
			i, ok := index[key]
			if !ok {
				index[key] = len(out)
				ing.EstimatedPrice = copyFloat(ing.EstimatedPrice)
				out = append(out, ing)
				continue
			}
			out[i].Amount += ing.Amount
			if ing.EstimatedPrice != nil {
				sum := *ing.EstimatedPrice
				if out[i].EstimatedPrice != nil {
					sum += *out[i].EstimatedPrice
				}
				out[i].EstimatedPrice = &sum
			}
		}
	}
	return out
}

// FromMealPlan builds candidates for the plan's ingredients. priced maps a
// position in PlanIngredients(plan) to the offer chosen for it; other
// ingredients fall back to the generator's estimate, or stay unpriced.
func FromMealPlan(plan *model.MealPlan, priced map[int]model.Offer) []Candidate {
	ingredients := PlanIngredients(plan)
	candidates := make([]Candidate, 0, len(ingredients))
	for i, ing := range ingredients {
		c := Candidate{
			ID:     ItemID(model.SourceMealPlan, plan.ID+"/"+ingredientKey(ing)),
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Source: model.SourceMealPlan,
		}
		if offer, ok := priced[i]; ok {
			price := offer.Price
			c.OfferPrice = &price
			c.OfferID = offer.ID
			c.Store = offer.ChainName
		} else if ing.EstimatedPrice != nil {
			c.Price = copyFloat(ing.EstimatedPrice)
			c.IsEstimate = true
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// Manual builds a user-entered candidate with a fresh id.
func Manual(name string, amount float64, unit string, price *float64) Candidate {
	return Candidate{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Amount: amount,
		Unit:   unit,
		Price:  copyFloat(price),
		Source: model.SourceManual,
	}
}

func ingredientKey(ing model.Ingredient) string {
	return strings.ToLower(strings.TrimSpace(ing.Name)) + "|" + strings.ToLower(strings.TrimSpace(ing.Unit))
}
