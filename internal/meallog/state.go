// Package meallog tracks which meals a user ate or skipped each day.
package meallog

import "github.com/Veraticus/larder/internal/model"

// ToggleCompleted marks a slot eaten, or returns a completed slot to pending.
func ToggleCompleted(s model.SlotState) model.SlotState {
	if s == model.SlotCompleted {
		return model.SlotPending
	}
	return model.SlotCompleted
}

// ToggleSkipped marks a slot skipped, or returns a skipped slot to pending.
func ToggleSkipped(s model.SlotState) model.SlotState {
	if s == model.SlotSkipped {
		return model.SlotPending
	}
	return model.SlotSkipped
}

// Action is a user interaction with a meal slot.
type Action int

const (
	// ActionComplete toggles the completed state.
	ActionComplete Action = iota
	// ActionSkip toggles the skipped state.
	ActionSkip
)

func (a Action) apply(s model.SlotState) model.SlotState {
	if a == ActionSkip {
		return ToggleSkipped(s)
	}
	return ToggleCompleted(s)
}

// Summary counts slot states for a day.
type Summary struct {
	Completed int
	Skipped   int
	Pending   int
}

// Summarize counts the log's slots by state.
func Summarize(log *model.DailyMealLog) Summary {
	var s Summary
	for _, slot := range model.MealSlots {
		switch log.Slot(slot) {
		case model.SlotCompleted:
			s.Completed++
		case model.SlotSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	return s
}
