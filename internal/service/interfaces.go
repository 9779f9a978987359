// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/larder/internal/model"
)

// OfferSource fetches active offers restricted to a set of chains and a date.
type OfferSource interface {
	FetchOffers(ctx context.Context, chainIDs []string, asOf time.Time) ([]model.Offer, error)
}

// StapleSource loads the pantry staple reference data.
type StapleSource interface {
	FetchStaples(ctx context.Context) ([]model.PantryStaple, error)
}

// ShoppingListStore reads and writes whole shopping list records.
// Missing records are reported as common.ErrNotFound.
type ShoppingListStore interface {
	GetShoppingList(ctx context.Context, householdID, listID string) (*model.ShoppingList, error)
	// GetActiveShoppingList returns the household's uncompleted list.
	GetActiveShoppingList(ctx context.Context, householdID string) (*model.ShoppingList, error)
	UpsertShoppingList(ctx context.Context, list *model.ShoppingList) error
	DeleteShoppingList(ctx context.Context, householdID, listID string) error
	// ListShoppingLists returns the household's lists, newest first. A non-positive limit returns all.
	ListShoppingLists(ctx context.Context, householdID string, limit int) ([]model.ShoppingList, error)
}

// MealLogStore reads and writes whole daily meal log records keyed by (user, date).
type MealLogStore interface {
	GetMealLog(ctx context.Context, userID string, date time.Time) (*model.DailyMealLog, error)
	UpsertMealLog(ctx context.Context, log *model.DailyMealLog) error
	// DeleteMealLogsByPlan removes every log the user recorded against a meal plan.
	DeleteMealLogsByPlan(ctx context.Context, userID, mealPlanID string) (int, error)
}

// HouseholdStore persists household preferences.
type HouseholdStore interface {
	GetHousehold(ctx context.Context, id string) (*model.Household, error)
	SaveHousehold(ctx context.Context, household *model.Household) error
	ListHouseholds(ctx context.Context) ([]model.Household, error)
}

// Catalog loads externally sourced reference data.
type Catalog interface {
	SaveChains(ctx context.Context, chains []model.Chain) error
	SaveOffers(ctx context.Context, offers []model.Offer) error
	SaveStaples(ctx context.Context, staples []model.PantryStaple) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	OfferSource
	StapleSource
	ShoppingListStore
	MealLogStore
	HouseholdStore
	Catalog

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
