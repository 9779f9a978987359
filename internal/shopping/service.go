package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
)

// Service loads, mutates and stores a household's active shopping list.
// Operations on one household run one at a time; different households proceed in parallel.
type Service struct {
	store service.ShoppingListStore
	agg   *Aggregator
	newID func() string
	now   func() time.Time
	locks common.KeyedMutex
}

// NewService creates a shopping list service over store.
func NewService(store service.ShoppingListStore) *Service {
	return &Service{
		store: store,
		agg:   NewAggregator(),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Active returns the household's active list, or nil when there is none.
func (s *Service) Active(ctx context.Context, actor model.Actor) (*model.ShoppingList, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	return s.active(ctx, actor.HouseholdID)
}

// Get returns a specific list of the household, active or completed.
func (s *Service) Get(ctx context.Context, actor model.Actor, listID string) (*model.ShoppingList, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	list, err := s.store.GetShoppingList(ctx, actor.HouseholdID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load list %s: %w", listID, err)
	}
	return list, nil
}

// AddOrUpdate merges candidates into the active list, creating the list if none exists.
func (s *Service) AddOrUpdate(ctx context.Context, actor model.Actor, candidates []Candidate) (*model.ShoppingList, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(actor.HouseholdID)
	defer unlock()

	list, err := s.active(ctx, actor.HouseholdID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = s.newList(actor.HouseholdID, "")
	}

	next, err := s.agg.AddOrUpdateItems(list, candidates)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}

	slog.Info("Updated shopping list",
		"household", actor.HouseholdID,
		"list", next.ID,
		"candidates", len(candidates),
		"items", len(next.Items),
		"total", next.TotalPrice)
	return next, nil
}

// Seed merges a meal plan's candidates into the household's list. The active
// list is reused unless supersede is set, in which case the candidates go onto
// a fresh list and the old one is deleted once the fresh list is stored.
// Candidates are validated before anything is written.
func (s *Service) Seed(ctx context.Context, actor model.Actor, mealPlanID string, supersede bool, candidates []Candidate) (*model.ShoppingList, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(actor.HouseholdID)
	defer unlock()

	old, err := s.active(ctx, actor.HouseholdID)
	if err != nil {
		return nil, err
	}

	base := s.newList(actor.HouseholdID, mealPlanID)
	if old != nil && !supersede {
		base = clone(old)
		if base.MealPlanID == "" {
			base.MealPlanID = mealPlanID
		}
	}

	next, err := s.agg.AddOrUpdateItems(base, candidates)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}

	if old != nil && supersede {
		if err := s.store.DeleteShoppingList(ctx, actor.HouseholdID, old.ID); err != nil {
			if cleanupErr := s.store.DeleteShoppingList(ctx, actor.HouseholdID, next.ID); cleanupErr != nil {
				slog.Warn("Failed to roll back superseding list",
					"household", actor.HouseholdID,
					"list", next.ID,
					"error", cleanupErr)
			}
			return nil, fmt.Errorf("failed to abandon list %s: %w", old.ID, err)
		}
		slog.Info("Superseded shopping list", "household", actor.HouseholdID, "list", old.ID)
	}

	slog.Info("Seeded shopping list",
		"household", actor.HouseholdID,
		"list", next.ID,
		"plan", next.MealPlanID,
		"candidates", len(candidates),
		"items", len(next.Items))
	return next, nil
}

// History returns the household's lists, newest first. A non-positive limit returns all of them.
func (s *Service) History(ctx context.Context, actor model.Actor, limit int) ([]model.ShoppingList, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	lists, err := s.store.ListShoppingLists(ctx, actor.HouseholdID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load list history: %w", err)
	}
	return lists, nil
}

// Toggle flips the checked state of one item on the active list.
func (s *Service) Toggle(ctx context.Context, actor model.Actor, itemID string) (*model.ShoppingList, error) {
	return s.mutate(ctx, actor, func(list *model.ShoppingList) (*model.ShoppingList, error) {
		return s.agg.ToggleChecked(list, itemID)
	})
}

// Remove deletes one item from the active list.
func (s *Service) Remove(ctx context.Context, actor model.Actor, itemID string) (*model.ShoppingList, error) {
	return s.mutate(ctx, actor, func(list *model.ShoppingList) (*model.ShoppingList, error) {
		return s.agg.RemoveItem(list, itemID)
	})
}

// Clear empties the active list.
func (s *Service) Clear(ctx context.Context, actor model.Actor) (*model.ShoppingList, error) {
	return s.mutate(ctx, actor, s.agg.Clear)
}

// Complete checks out the active list. The household has no active list afterwards.
func (s *Service) Complete(ctx context.Context, actor model.Actor) (*model.ShoppingList, error) {
	return s.mutate(ctx, actor, s.agg.MarkCompleted)
}

// Abandon deletes the active list.
func (s *Service) Abandon(ctx context.Context, actor model.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	unlock := s.locks.Lock(actor.HouseholdID)
	defer unlock()

	list, err := s.active(ctx, actor.HouseholdID)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("no active list for household %s: %w", actor.HouseholdID, common.ErrNotFound)
	}
	if err := s.store.DeleteShoppingList(ctx, actor.HouseholdID, list.ID); err != nil {
		return fmt.Errorf("failed to abandon list %s: %w", list.ID, err)
	}
	slog.Info("Abandoned shopping list", "household", actor.HouseholdID, "list", list.ID)
	return nil
}

func (s *Service) mutate(ctx context.Context, actor model.Actor, apply func(*model.ShoppingList) (*model.ShoppingList, error)) (*model.ShoppingList, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(actor.HouseholdID)
	defer unlock()

	list, err := s.active(ctx, actor.HouseholdID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("no active list for household %s: %w", actor.HouseholdID, common.ErrNotFound)
	}

	next, err := apply(list)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) active(ctx context.Context, householdID string) (*model.ShoppingList, error) {
	list, err := s.store.GetActiveShoppingList(ctx, householdID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active list: %w", err)
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, list *model.ShoppingList) error {
	if err := s.store.UpsertShoppingList(ctx, list); err != nil {
		return fmt.Errorf("failed to save list %s: %w", list.ID, err)
	}
	return nil
}

func (s *Service) newList(householdID, mealPlanID string) *model.ShoppingList {
	now := s.now().UTC()
	return &model.ShoppingList{
		ID:          s.newID(),
		HouseholdID: householdID,
		MealPlanID:  mealPlanID,
		Items:       []model.ShoppingListItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validateActor(actor model.Actor) error {
	if actor.HouseholdID == "" {
		return common.NewUserError("no household configured; run 'larder household set' first", common.ErrMissingConfig)
	}
	return nil
}
