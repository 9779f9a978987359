package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

func calories(v int) *int { return &v }

func TestSQLiteStorage_MealLogRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC)
	_, err := store.GetMealLog(ctx, "u1", day)
	assert.ErrorIs(t, err, common.ErrNotFound)

	taken := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)
	log := model.NewDailyMealLog("u1", day)
	log.MealPlanID = "plan-1"
	log.Breakfast = model.SlotCompleted
	log.Dinner = model.SlotSkipped
	log.ExtraCalories = 150
	log.ExtraDescription = "apple"
	log.Photos = []model.FoodPhoto{
		{URL: "https://img/1.jpg", Description: "lunch", EstimatedCalories: calories(520), TakenAt: taken},
		{URL: "https://img/2.jpg"},
	}
	require.NoError(t, store.UpsertMealLog(ctx, log))

	got, err := store.GetMealLog(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, model.Day(day), got.Date)
	assert.Equal(t, model.SlotCompleted, got.Breakfast)
	assert.Equal(t, model.SlotPending, got.Lunch)
	assert.Equal(t, model.SlotSkipped, got.Dinner)
	assert.Equal(t, "plan-1", got.MealPlanID)
	assert.Equal(t, 150, got.ExtraCalories)
	require.Len(t, got.Photos, 2)
	assert.Equal(t, 520, *got.Photos[0].EstimatedCalories)
	assert.True(t, taken.Equal(got.Photos[0].TakenAt))
	assert.Nil(t, got.Photos[1].EstimatedCalories)
	assert.True(t, got.Photos[1].TakenAt.IsZero())
	assert.Equal(t, 670, got.LoggedCalories())

	log.Dinner = model.SlotPending
	log.Photos = log.Photos[:1]
	require.NoError(t, store.UpsertMealLog(ctx, log))

	got, err = store.GetMealLog(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, model.SlotPending, got.Dinner)
	assert.Len(t, got.Photos, 1)
}

func TestSQLiteStorage_DeleteMealLogsByPlan(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, plan := range []string{"plan-1", "plan-1", "plan-2"} {
		log := model.NewDailyMealLog("u1", base.AddDate(0, 0, i))
		log.MealPlanID = plan
		log.Photos = []model.FoodPhoto{{URL: "x"}}
		require.NoError(t, store.UpsertMealLog(ctx, log))
	}
	other := model.NewDailyMealLog("u2", base)
	other.MealPlanID = "plan-1"
	require.NoError(t, store.UpsertMealLog(ctx, other))

	n, err := store.DeleteMealLogsByPlan(ctx, "u1", "plan-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.GetMealLog(ctx, "u1", base)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = store.GetMealLog(ctx, "u1", base.AddDate(0, 0, 2))
	assert.NoError(t, err)
	_, err = store.GetMealLog(ctx, "u2", base)
	assert.NoError(t, err)

	var photos int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meal_log_photos WHERE user_id = 'u1'`).Scan(&photos))
	assert.Equal(t, 1, photos)
}

func TestSQLiteStorage_UpsertMealLogValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.UpsertMealLog(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.UpsertMealLog(ctx, &model.DailyMealLog{Date: time.Now()}), ErrInvalidMealLog)
	assert.ErrorIs(t, store.UpsertMealLog(ctx, &model.DailyMealLog{UserID: "u1"}), ErrInvalidMealLog)
	assert.ErrorIs(t, store.UpsertMealLog(ctx, &model.DailyMealLog{UserID: "u1", Date: time.Now(), Lunch: "eaten"}), ErrInvalidMealLog)
}
