package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

func TestSQLiteStorage_Households(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetHousehold(ctx, "h1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SaveHousehold(ctx, &model.Household{
		ID:              "h1",
		Name:            "Home",
		PreferredChains: []string{"kiwi", "rema", "kiwi", ""},
	}))

	got, err := store.GetHousehold(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Name)
	assert.Equal(t, []string{"kiwi", "rema"}, got.PreferredChains)

	require.NoError(t, store.SaveHousehold(ctx, &model.Household{ID: "h1", Name: "Cabin"}))
	got, err = store.GetHousehold(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Cabin", got.Name)
	assert.Empty(t, got.PreferredChains)

	assert.ErrorIs(t, store.SaveHousehold(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveHousehold(ctx, &model.Household{}), ErrInvalidHousehold)
}

func TestSQLiteStorage_ListHouseholds(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	households, err := store.ListHouseholds(ctx)
	require.NoError(t, err)
	assert.Empty(t, households)

	require.NoError(t, store.SaveHousehold(ctx, &model.Household{ID: "h2", PreferredChains: []string{"rema"}}))
	require.NoError(t, store.SaveHousehold(ctx, &model.Household{ID: "h1", Name: "Home"}))

	households, err = store.ListHouseholds(ctx)
	require.NoError(t, err)
	require.Len(t, households, 2)
	assert.Equal(t, "h1", households[0].ID)
	assert.Equal(t, []string{"rema"}, households[1].PreferredChains)
}
