package model

import (
	"fmt"
	"time"
)

// MealSlot is one of the three meals tracked per day.
type MealSlot string

const (
	// Breakfast is the morning slot.
	Breakfast MealSlot = "breakfast"
	// Lunch is the midday slot.
	Lunch MealSlot = "lunch"
	// Dinner is the evening slot.
	Dinner MealSlot = "dinner"
)

// MealSlots lists the slots in day order.
var MealSlots = []MealSlot{Breakfast, Lunch, Dinner}

// ParseMealSlot converts user input into a MealSlot.
func ParseMealSlot(s string) (MealSlot, error) {
	for _, slot := range MealSlots {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown meal slot %q", s)
}

// SlotState is the consumption state of a single meal slot.
// A slot is in exactly one state, so completed and skipped cannot both hold.
type SlotState string

const (
	// SlotPending is the zero state.
	SlotPending SlotState = ""
	// SlotCompleted means the meal was eaten.
	SlotCompleted SlotState = "completed"
	// SlotSkipped means the meal was deliberately skipped.
	SlotSkipped SlotState = "skipped"
)

// String returns a readable state name.
func (s SlotState) String() string {
	if s == SlotPending {
		return "pending"
	}
	return string(s)
}

// ParseSlotState converts a stored value into a SlotState.
func ParseSlotState(s string) (SlotState, error) {
	switch s {
	case "", "pending":
		return SlotPending, nil
	case string(SlotCompleted):
		return SlotCompleted, nil
	case string(SlotSkipped):
		return SlotSkipped, nil
	}
	return SlotPending, fmt.Errorf("unknown slot state %q", s)
}

// FoodPhoto is a logged photo of something eaten.
type FoodPhoto struct {
	TakenAt           time.Time
	EstimatedCalories *int
	URL               string
	Description       string
}

// DailyMealLog tracks one user's meals for one calendar day.
type DailyMealLog struct {
	Date             time.Time
	UserID           string
	MealPlanID       string
	Breakfast        SlotState
	Lunch            SlotState
	Dinner           SlotState
	ExtraDescription string
	Photos           []FoodPhoto
	ExtraCalories    int
}

// NewDailyMealLog returns a log with every slot pending and no photos.
func NewDailyMealLog(userID string, date time.Time) *DailyMealLog {
	return &DailyMealLog{
		UserID: userID,
		Date:   Day(date),
	}
}

// Slot returns the state of the given slot.
func (l *DailyMealLog) Slot(slot MealSlot) SlotState {
	switch slot {
	case Breakfast:
		return l.Breakfast
	case Lunch:
		return l.Lunch
	case Dinner:
		return l.Dinner
	}
	return SlotPending
}

// SetSlot sets the state of the given slot.
func (l *DailyMealLog) SetSlot(slot MealSlot, state SlotState) error {
	switch slot {
	case Breakfast:
		l.Breakfast = state
	case Lunch:
		l.Lunch = state
	case Dinner:
		l.Dinner = state
	default:
		return fmt.Errorf("unknown meal slot %q", slot)
	}
	return nil
}

// LoggedCalories sums photo estimates and supplemental calories.
func (l *DailyMealLog) LoggedCalories() int {
	total := l.ExtraCalories
	for _, p := range l.Photos {
		if p.EstimatedCalories != nil {
			total += *p.EstimatedCalories
		}
	}
	return total
}
