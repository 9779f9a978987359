// Package storage provides the SQLite persistence layer for larder.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/larder/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidOffer     = errors.New("invalid offer")
	ErrInvalidStaple    = errors.New("invalid pantry staple")
	ErrInvalidHousehold = errors.New("invalid household")
	ErrInvalidList      = errors.New("invalid shopping list")
	ErrInvalidMealLog   = errors.New("invalid meal log")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateChain(chain model.Chain) error {
	if strings.TrimSpace(chain.ID) == "" {
		return fmt.Errorf("%w: chain missing ID", ErrInvalidOffer)
	}
	if strings.TrimSpace(chain.Name) == "" {
		return fmt.Errorf("%w: chain %s missing name", ErrInvalidOffer, chain.ID)
	}
	return nil
}

func validateOffer(offer model.Offer) error {
	if strings.TrimSpace(offer.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidOffer)
	}
	if strings.TrimSpace(offer.ChainID) == "" {
		return fmt.Errorf("%w: %s missing chain", ErrInvalidOffer, offer.ID)
	}
	if offer.Price < 0 {
		return fmt.Errorf("%w: %s has negative price", ErrInvalidOffer, offer.ID)
	}
	if offer.ValidFrom.IsZero() || offer.ValidUntil.IsZero() {
		return fmt.Errorf("%w: %s missing validity window", ErrInvalidOffer, offer.ID)
	}
	if model.Day(offer.ValidUntil).Before(model.Day(offer.ValidFrom)) {
		return fmt.Errorf("%w: offer %s", ErrInvalidDateRange, offer.ID)
	}
	return nil
}

func validateStaple(staple model.PantryStaple) error {
	if strings.TrimSpace(staple.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidStaple)
	}
	if strings.TrimSpace(staple.Name) == "" {
		return fmt.Errorf("%w: %s missing name", ErrInvalidStaple, staple.ID)
	}
	if staple.Category != "" {
		if _, err := model.ParseStapleCategory(string(staple.Category)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStaple, err)
		}
	}
	return nil
}

func validateHousehold(household *model.Household) error {
	if household == nil {
		return fmt.Errorf("%w: household", ErrNilParameter)
	}
	if strings.TrimSpace(household.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidHousehold)
	}
	return nil
}

func validateShoppingList(list *model.ShoppingList) error {
	if list == nil {
		return fmt.Errorf("%w: shopping list", ErrNilParameter)
	}
	if strings.TrimSpace(list.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidList)
	}
	if strings.TrimSpace(list.HouseholdID) == "" {
		return fmt.Errorf("%w: %s missing household", ErrInvalidList, list.ID)
	}

	seen := make(map[string]struct{}, len(list.Items))
	for i, item := range list.Items {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("%w: item at index %d missing ID", ErrInvalidList, i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item ID %s", ErrInvalidList, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func validateMealLog(log *model.DailyMealLog) error {
	if log == nil {
		return fmt.Errorf("%w: meal log", ErrNilParameter)
	}
	if strings.TrimSpace(log.UserID) == "" {
		return fmt.Errorf("%w: missing user", ErrInvalidMealLog)
	}
	if log.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidMealLog)
	}
	for _, slot := range model.MealSlots {
		if _, err := model.ParseSlotState(string(log.Slot(slot))); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidMealLog, slot, err)
		}
	}
	return nil
}
