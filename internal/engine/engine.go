// Package engine runs the restock pipeline: eligible offers are matched against
// pantry staples or meal-plan ingredients and merged into the household's list.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/match"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/offers"
	"github.com/Veraticus/larder/internal/service"
	"github.com/Veraticus/larder/internal/shopping"
)

// Restocker orchestrates offer lookup, matching and list updates.
type Restocker struct {
	storage service.Storage
	offers  *offers.Adapter
	matcher *match.Matcher
	lists   *shopping.Service
	workers int
}

// Config holds configuration options for the restocker.
type Config struct {
	ParallelWorkers int // Households restocked at once by RestockAll
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ParallelWorkers: 4,
	}
}

// New creates a restocker with the default configuration.
func New(storage service.Storage, lists *shopping.Service) *Restocker {
	return NewWithConfig(storage, lists, DefaultConfig())
}

// NewWithConfig creates a restocker with custom configuration.
func NewWithConfig(storage service.Storage, lists *shopping.Service, config Config) *Restocker {
	if config.ParallelWorkers <= 0 {
		config.ParallelWorkers = 1
	}
	return &Restocker{
		storage: storage,
		offers:  offers.NewAdapter(storage, "offer catalog"),
		matcher: match.NewMatcher(),
		lists:   lists,
		workers: config.ParallelWorkers,
	}
}

// RestockReport describes one staple restock run.
type RestockReport struct {
	List             *model.ShoppingList
	HouseholdID      string
	Matched          []model.StapleOfferMatch
	Unmatched        []model.PantryStaple
	OffersConsidered int
}

// Restock prices the pantry staples against today's eligible offers and merges
// the matches into the household's active list. With no matches the list is
// left as it is and not created.
func (r *Restocker) Restock(ctx context.Context, actor model.Actor, day time.Time) (*RestockReport, error) {
	household, err := r.household(ctx, actor)
	if err != nil {
		return nil, err
	}

	eligible, err := r.offers.EligibleForHousehold(ctx, household, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}

	staples, err := r.storage.FetchStaples(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load staples: %w", err)
	}

	matches := r.matcher.Match(staples, eligible)
	report := &RestockReport{
		HouseholdID:      household.ID,
		Matched:          matches,
		Unmatched:        match.Unmatched(staples, matches),
		OffersConsidered: len(eligible),
	}

	if len(matches) == 0 {
		slog.Info("No staple offers matched", "household", household.ID, "offers", len(eligible), "staples", len(staples))
		report.List, err = r.lists.Active(ctx, actor)
		if err != nil {
			return nil, err
		}
		return report, nil
	}

	report.List, err = r.lists.AddOrUpdate(ctx, actor, shopping.FromStapleMatches(matches))
	if err != nil {
		return nil, err
	}

	slog.Info("Restocked staples",
		"household", household.ID,
		"matched", len(matches),
		"unmatched", len(report.Unmatched),
		"total", report.List.TotalPrice)
	return report, nil
}

// SeedReport describes how a meal plan's ingredients were priced.
type SeedReport struct {
	List      *model.ShoppingList
	Priced    int // ingredients priced by an offer
	Estimated int // ingredients priced by the generator's estimate
	Unpriced  int
}

// SeedFromMealPlan adds the plan's ingredients to the household's list. The
// active list is reused unless supersede is set. Ingredients take a matching
// offer's price when one is eligible, otherwise the plan's estimate.
func (r *Restocker) SeedFromMealPlan(ctx context.Context, actor model.Actor, plan *model.MealPlan, day time.Time, supersede bool) (*SeedReport, error) {
	if plan == nil || plan.ID == "" {
		return nil, common.NewUserError("meal plan must have an id", common.ErrInvalidConfig)
	}

	household, err := r.household(ctx, actor)
	if err != nil {
		return nil, err
	}

	eligible, err := r.offers.EligibleForHousehold(ctx, household, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}

	ingredients := shopping.PlanIngredients(plan)
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}
	priced := r.matcher.MatchNames(names, eligible)
	candidates := shopping.FromMealPlan(plan, priced)

	list, err := r.lists.Seed(ctx, actor, plan.ID, supersede, candidates)
	if err != nil {
		return nil, err
	}

	report := &SeedReport{List: list}
	for _, c := range candidates {
		switch {
		case c.OfferPrice != nil:
			report.Priced++
		case c.Price != nil:
			report.Estimated++
		default:
			report.Unpriced++
		}
	}

	slog.Info("Seeded list from meal plan",
		"household", household.ID,
		"plan", plan.ID,
		"ingredients", len(candidates),
		"priced", report.Priced,
		"estimated", report.Estimated)
	return report, nil
}

// RestockResult is the outcome for one household in RestockAll.
type RestockResult struct {
	Report      *RestockReport
	Error       error
	HouseholdID string
}

// RestockAll restocks several households concurrently. Each household is
// handled by exactly one goroutine; failures are reported per household.
func (r *Restocker) RestockAll(ctx context.Context, actors []model.Actor, day time.Time) ([]RestockResult, error) {
	unique := make([]model.Actor, 0, len(actors))
	seen := make(map[string]struct{}, len(actors))
	for _, a := range actors {
		if _, dup := seen[a.HouseholdID]; dup {
			continue
		}
		seen[a.HouseholdID] = struct{}{}
		unique = append(unique, a)
	}

	results := make([]RestockResult, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, actor := range unique {
		i, actor := i, actor
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := r.Restock(gctx, actor, day)
			results[i] = RestockResult{HouseholdID: actor.HouseholdID, Report: report, Error: err}
			if errors.Is(err, context.Canceled) {
				return err
			}
			if err != nil {
				slog.Warn("Restock failed", "household", actor.HouseholdID, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Restocker) household(ctx context.Context, actor model.Actor) (*model.Household, error) {
	if actor.HouseholdID == "" {
		return nil, common.NewUserError("no household configured; run 'larder household set' first", common.ErrMissingConfig)
	}
	household, err := r.storage.GetHousehold(ctx, actor.HouseholdID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(fmt.Sprintf("household %q has no preferences yet; run 'larder household set'", actor.HouseholdID), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load household: %w", err)
	}
	return household, nil
}
