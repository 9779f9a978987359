package meallog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

type memoryStore struct {
	logs  map[string]model.DailyMealLog
	mu    sync.Mutex
	fails error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{logs: make(map[string]model.DailyMealLog)}
}

func key(userID string, date time.Time) string {
	return userID + "/" + model.FormatDay(date)
}

func (m *memoryStore) GetMealLog(_ context.Context, userID string, date time.Time) (*model.DailyMealLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails != nil {
		return nil, m.fails
	}
	log, ok := m.logs[key(userID, date)]
	if !ok {
		return nil, common.ErrNotFound
	}
	log.Photos = append([]model.FoodPhoto(nil), log.Photos...)
	return &log, nil
}

func (m *memoryStore) UpsertMealLog(_ context.Context, log *model.DailyMealLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *log
	stored.Photos = append([]model.FoodPhoto(nil), log.Photos...)
	m.logs[key(log.UserID, log.Date)] = stored
	return nil
}

func (m *memoryStore) DeleteMealLogsByPlan(_ context.Context, userID, mealPlanID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, log := range m.logs {
		if log.UserID == userID && log.MealPlanID == mealPlanID {
			delete(m.logs, k)
			n++
		}
	}
	return n, nil
}

var (
	user = model.Actor{HouseholdID: "h1", UserID: "u1"}
	day  = time.Date(2024, 3, 10, 19, 45, 0, 0, time.UTC)
)

func intPtr(i int) *int { return &i }

func TestService_GetMissingReturnsPending(t *testing.T) {
	svc := NewService(newMemoryStore())

	log, err := svc.Get(context.Background(), user, day)
	require.NoError(t, err)
	assert.Equal(t, "u1", log.UserID)
	assert.Equal(t, model.Day(day), log.Date)
	for _, slot := range model.MealSlots {
		assert.Equal(t, model.SlotPending, log.Slot(slot))
	}
	assert.Empty(t, log.Photos)
}

func TestService_FirstMutationCreatesLog(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := NewService(store)

	log, err := svc.ToggleCompleted(ctx, user, day, model.Lunch)
	require.NoError(t, err)
	assert.Equal(t, model.SlotCompleted, log.Lunch)
	assert.Equal(t, model.SlotPending, log.Breakfast)
	assert.Equal(t, model.SlotPending, log.Dinner)
	assert.Len(t, store.logs, 1)
}

func TestService_SkipThenComplete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	_, err := svc.ToggleSkipped(ctx, user, day, model.Dinner)
	require.NoError(t, err)
	log, err := svc.ToggleCompleted(ctx, user, day, model.Dinner)
	require.NoError(t, err)
	assert.Equal(t, model.SlotCompleted, log.Dinner)

	log, err = svc.ToggleCompleted(ctx, user, day, model.Dinner)
	require.NoError(t, err)
	assert.Equal(t, model.SlotPending, log.Dinner)

	stored, err := svc.Get(ctx, user, day)
	require.NoError(t, err)
	assert.Equal(t, model.SlotPending, stored.Dinner)
}

func TestService_PhotosAndExtrasLeaveSlots(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())
	svc.now = func() time.Time { return day }

	_, err := svc.ToggleCompleted(ctx, user, day, model.Breakfast)
	require.NoError(t, err)

	log, err := svc.AddPhoto(ctx, user, day, model.FoodPhoto{URL: "https://img/1.jpg", EstimatedCalories: intPtr(450)})
	require.NoError(t, err)
	assert.Equal(t, day, log.Photos[0].TakenAt)

	log, err = svc.SetExtra(ctx, user, day, 200, " chocolate ")
	require.NoError(t, err)

	assert.Equal(t, model.SlotCompleted, log.Breakfast)
	assert.Equal(t, model.SlotPending, log.Lunch)
	assert.Len(t, log.Photos, 1)
	assert.Equal(t, "chocolate", log.ExtraDescription)
	assert.Equal(t, 650, log.LoggedCalories())
}

func TestService_InvalidEntries(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	_, err := svc.AddPhoto(ctx, user, day, model.FoodPhoto{})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = svc.AddPhoto(ctx, user, day, model.FoodPhoto{URL: "x", EstimatedCalories: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = svc.SetExtra(ctx, user, day, -5, "")
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = svc.ToggleCompleted(ctx, user, day, model.MealSlot("brunch"))
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = svc.Get(ctx, model.Actor{}, day)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestService_DaysAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	_, err := svc.ToggleCompleted(ctx, user, day, model.Lunch)
	require.NoError(t, err)

	next, err := svc.Get(ctx, user, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, model.SlotPending, next.Lunch)
}

func TestService_DeleteForMealPlan(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := NewService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.AssignPlan(ctx, user, day.AddDate(0, 0, i), "plan-1")
		require.NoError(t, err)
	}
	_, err := svc.AssignPlan(ctx, user, day.AddDate(0, 0, 5), "plan-2")
	require.NoError(t, err)

	n, err := svc.DeleteForMealPlan(ctx, user, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, store.logs, 1)

	_, err = svc.DeleteForMealPlan(ctx, user, "")
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestService_ConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleCompleted(ctx, user, day, model.Breakfast)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	log, err := svc.Get(ctx, user, day)
	require.NoError(t, err)
	assert.Equal(t, model.SlotPending, log.Breakfast, "an even number of toggles returns to pending")
}
