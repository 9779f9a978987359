package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotState(t *testing.T) {
	tests := []struct {
		in      string
		want    SlotState
		wantErr bool
	}{
		{in: "", want: SlotPending},
		{in: "pending", want: SlotPending},
		{in: "completed", want: SlotCompleted},
		{in: "skipped", want: SlotSkipped},
		{in: "eaten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlotState(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "pending", SlotPending.String())
}

func TestDailyMealLog_Slots(t *testing.T) {
	log := NewDailyMealLog("u1", time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), log.Date)

	for _, slot := range MealSlots {
		assert.Equal(t, SlotPending, log.Slot(slot))
	}

	require.NoError(t, log.SetSlot(Lunch, SlotSkipped))
	assert.Equal(t, SlotSkipped, log.Lunch)
	assert.Error(t, log.SetSlot(MealSlot("brunch"), SlotCompleted))

	_, err := ParseMealSlot("brunch")
	assert.Error(t, err)
}

func TestDailyMealLog_LoggedCalories(t *testing.T) {
	log := &DailyMealLog{
		ExtraCalories: 200,
		Photos: []FoodPhoto{
			{EstimatedCalories: ptr(350)},
			{URL: "no estimate"},
			{EstimatedCalories: ptr(120)},
		},
	}
	assert.Equal(t, 670, log.LoggedCalories())
}
