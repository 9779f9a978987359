package offers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
)

// Adapter fetches offers from a source and applies the eligibility filter.
type Adapter struct {
	source service.OfferSource
	name   string
}

// NewAdapter creates an adapter over source. The name appears in error messages.
func NewAdapter(source service.OfferSource, name string) *Adapter {
	if name == "" {
		name = "offers"
	}
	return &Adapter{source: source, name: name}
}

// FetchEligible returns the offers usable on day at the given chains, cheapest first.
// An empty chain set yields an empty result without contacting the source.
// Source failures are reported as common.ErrSourceUnavailable and are not retried.
func (a *Adapter) FetchEligible(ctx context.Context, chainIDs []string, day time.Time) ([]model.Offer, error) {
	if len(chainSet(chainIDs)) == 0 {
		return []model.Offer{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day = model.Day(day)
	fetched, err := a.source.FetchOffers(ctx, chainIDs, day)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, common.SourceUnavailable(a.name, err)
	}

	// The source may filter loosely; the contract is enforced here.
	eligible := Filter(fetched, chainIDs, day)
	slog.Debug("Fetched eligible offers",
		"source", a.name,
		"chains", len(chainIDs),
		"fetched", len(fetched),
		"eligible", len(eligible),
		"day", model.FormatDay(day))
	return eligible, nil
}

// EligibleForHousehold fetches offers for the household's preferred chains.
func (a *Adapter) EligibleForHousehold(ctx context.Context, household *model.Household, day time.Time) ([]model.Offer, error) {
	if household == nil {
		return nil, errors.New("household is required")
	}
	return a.FetchEligible(ctx, household.PreferredChains, day)
}
