package meallog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
)

// ErrInvalidEntry is returned for photo or calorie entries that cannot be logged.
var ErrInvalidEntry = errors.New("invalid meal log entry")

// Service records meal slot changes, photos and extra calories per (user, day).
// Every mutation reads the stored log, applies the change and writes the whole record.
type Service struct {
	store service.MealLogStore
	now   func() time.Time
	locks common.KeyedMutex
}

// NewService creates a meal log service over store.
func NewService(store service.MealLogStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Get returns the log for the day. A day with nothing recorded yields an
// empty log with every slot pending.
func (s *Service) Get(ctx context.Context, actor model.Actor, date time.Time) (*model.DailyMealLog, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, actor.UserID, date)
}

// ToggleCompleted toggles the completed state of one slot.
func (s *Service) ToggleCompleted(ctx context.Context, actor model.Actor, date time.Time, slot model.MealSlot) (*model.DailyMealLog, error) {
	return s.toggle(ctx, actor, date, slot, ActionComplete)
}

// ToggleSkipped toggles the skipped state of one slot.
func (s *Service) ToggleSkipped(ctx context.Context, actor model.Actor, date time.Time, slot model.MealSlot) (*model.DailyMealLog, error) {
	return s.toggle(ctx, actor, date, slot, ActionSkip)
}

func (s *Service) toggle(ctx context.Context, actor model.Actor, date time.Time, slot model.MealSlot, action Action) (*model.DailyMealLog, error) {
	return s.update(ctx, actor, date, func(log *model.DailyMealLog) error {
		next := action.apply(log.Slot(slot))
		if err := log.SetSlot(slot, next); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
		}
		slog.Debug("Meal slot changed", "user", log.UserID, "date", model.FormatDay(log.Date), "slot", slot, "state", next)
		return nil
	})
}

// AddPhoto appends a food photo. Slots are not affected.
func (s *Service) AddPhoto(ctx context.Context, actor model.Actor, date time.Time, photo model.FoodPhoto) (*model.DailyMealLog, error) {
	if strings.TrimSpace(photo.URL) == "" {
		return nil, fmt.Errorf("%w: photo url is required", ErrInvalidEntry)
	}
	if photo.EstimatedCalories != nil && *photo.EstimatedCalories < 0 {
		return nil, fmt.Errorf("%w: calories must not be negative", ErrInvalidEntry)
	}
	return s.update(ctx, actor, date, func(log *model.DailyMealLog) error {
		if photo.TakenAt.IsZero() {
			photo.TakenAt = s.now().UTC()
		}
		log.Photos = append(log.Photos, photo)
		return nil
	})
}

// SetExtra replaces the supplemental calories and their description. Slots are not affected.
func (s *Service) SetExtra(ctx context.Context, actor model.Actor, date time.Time, calories int, description string) (*model.DailyMealLog, error) {
	if calories < 0 {
		return nil, fmt.Errorf("%w: calories must not be negative", ErrInvalidEntry)
	}
	return s.update(ctx, actor, date, func(log *model.DailyMealLog) error {
		log.ExtraCalories = calories
		log.ExtraDescription = strings.TrimSpace(description)
		return nil
	})
}

// AssignPlan links the day's log to the meal plan being followed.
func (s *Service) AssignPlan(ctx context.Context, actor model.Actor, date time.Time, mealPlanID string) (*model.DailyMealLog, error) {
	return s.update(ctx, actor, date, func(log *model.DailyMealLog) error {
		log.MealPlanID = mealPlanID
		return nil
	})
}

// DeleteForMealPlan removes every log the user recorded against a deleted meal plan.
func (s *Service) DeleteForMealPlan(ctx context.Context, actor model.Actor, mealPlanID string) (int, error) {
	if err := validateActor(actor); err != nil {
		return 0, err
	}
	if mealPlanID == "" {
		return 0, fmt.Errorf("%w: meal plan id is required", ErrInvalidEntry)
	}

	n, err := s.store.DeleteMealLogsByPlan(ctx, actor.UserID, mealPlanID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete meal logs for plan %s: %w", mealPlanID, err)
	}
	slog.Info("Deleted meal logs for plan", "user", actor.UserID, "plan", mealPlanID, "count", n)
	return n, nil
}

func (s *Service) update(ctx context.Context, actor model.Actor, date time.Time, apply func(*model.DailyMealLog) error) (*model.DailyMealLog, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	day := model.Day(date)
	unlock := s.locks.Lock(actor.UserID + "/" + model.FormatDay(day))
	defer unlock()

	log, err := s.load(ctx, actor.UserID, day)
	if err != nil {
		return nil, err
	}
	if err := apply(log); err != nil {
		return nil, err
	}
	if err := s.store.UpsertMealLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to save meal log for %s: %w", model.FormatDay(day), err)
	}
	return log, nil
}

func (s *Service) load(ctx context.Context, userID string, date time.Time) (*model.DailyMealLog, error) {
	log, err := s.store.GetMealLog(ctx, userID, model.Day(date))
	if errors.Is(err, common.ErrNotFound) {
		return model.NewDailyMealLog(userID, date), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal log for %s: %w", model.FormatDay(date), err)
	}
	return log, nil
}

func validateActor(actor model.Actor) error {
	if actor.UserID == "" {
		return common.NewUserError("no user configured; set user.id in the config file", common.ErrMissingConfig)
	}
	return nil
}
