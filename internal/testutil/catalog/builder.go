// Package catalog seeds chains, offers, staples and households for tests
// through a fluent builder.
//
// Example usage:
//
//	catalog.NewBuilder(t).
//		WithChain("rema", "Rema 1000").
//		WithOffer("rema", "Sea Salt", 12).
//		WithStaples(catalog.StapleSalt, catalog.StapleOliveOil).
//		WithHousehold("h1", "rema").
//		Build(ctx, store)
package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
)

// Common staples used across tests.
var (
	StapleSalt     = model.PantryStaple{ID: "salt", Name: "salt", Category: model.CategorySpices}
	StaplePepper   = model.PantryStaple{ID: "pepper", Name: "black pepper", Category: model.CategorySpices}
	StapleOliveOil = model.PantryStaple{ID: "olive-oil", Name: "olive oil", Category: model.CategoryOilFat}
	StapleOil      = model.PantryStaple{ID: "oil", Name: "oil", Category: model.CategoryOilFat}
	StapleFlour    = model.PantryStaple{ID: "flour", Name: "flour", Category: model.CategoryBaking}
	StapleSaffron  = model.PantryStaple{ID: "saffron", Name: "saffron", Category: model.CategorySpices}
)

// Builder accumulates catalog records and writes them in one go.
type Builder struct {
	t          *testing.T
	households []model.Household
	chains     []model.Chain
	offers     []model.Offer
	staples    []model.PantryStaple
	from       time.Time
	until      time.Time
}

// NewBuilder creates a builder. Offers default to a validity window around today.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	today := model.Day(time.Now())
	return &Builder{
		t:     t,
		from:  today.AddDate(0, 0, -3),
		until: today.AddDate(0, 0, 3),
	}
}

// ValidBetween sets the window used by offers added afterwards.
func (b *Builder) ValidBetween(from, until time.Time) *Builder {
	b.from, b.until = model.Day(from), model.Day(until)
	return b
}

// WithChain adds a chain.
func (b *Builder) WithChain(id, name string) *Builder {
	b.chains = append(b.chains, model.Chain{ID: id, Name: name})
	return b
}

// WithOffer adds an active offer at the given chain, with a generated ID.
func (b *Builder) WithOffer(chainID, productName string, price float64) *Builder {
	return b.WithOfferID(fmt.Sprintf("offer-%02d", len(b.offers)+1), chainID, productName, price)
}

// WithOfferID adds an active offer with an explicit ID.
func (b *Builder) WithOfferID(id, chainID, productName string, price float64) *Builder {
	b.offers = append(b.offers, model.Offer{
		ID:          id,
		ProductName: productName,
		ChainID:     chainID,
		Price:       price,
		ValidFrom:   b.from,
		ValidUntil:  b.until,
		IsActive:    true,
	})
	return b
}

// WithStaples adds staples in display order.
func (b *Builder) WithStaples(staples ...model.PantryStaple) *Builder {
	b.staples = append(b.staples, staples...)
	return b
}

// WithHousehold adds a household preferring the given chains.
func (b *Builder) WithHousehold(id string, chains ...string) *Builder {
	b.households = append(b.households, model.Household{ID: id, Name: id, PreferredChains: chains})
	return b
}

// Offers returns the offers added so far.
func (b *Builder) Offers() []model.Offer {
	return b.offers
}

// Build writes everything to storage, failing the test on error.
func (b *Builder) Build(ctx context.Context, storage service.Storage) {
	b.t.Helper()

	if len(b.chains) > 0 {
		if err := storage.SaveChains(ctx, b.chains); err != nil {
			b.t.Fatalf("failed to seed chains: %v", err)
		}
	}
	if len(b.offers) > 0 {
		if err := storage.SaveOffers(ctx, b.offers); err != nil {
			b.t.Fatalf("failed to seed offers: %v", err)
		}
	}
	if len(b.staples) > 0 {
		if err := storage.SaveStaples(ctx, b.staples); err != nil {
			b.t.Fatalf("failed to seed staples: %v", err)
		}
	}
	for i := range b.households {
		if err := storage.SaveHousehold(ctx, &b.households[i]); err != nil {
			b.t.Fatalf("failed to seed household %q: %v", b.households[i].ID, err)
		}
	}
}
