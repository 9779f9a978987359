package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/model"
)

func parseDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDay(s)
	require.NoError(t, err)
	return d
}

func testOffer(t *testing.T, id, chain, name string, price float64, from, until string) model.Offer {
	t.Helper()
	return model.Offer{
		ID:          id,
		ProductName: name,
		ChainID:     chain,
		Price:       price,
		ValidFrom:   parseDay(t, from),
		ValidUntil:  parseDay(t, until),
		IsActive:    true,
	}
}

func offerIDs(offers []model.Offer) []string {
	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestSQLiteStorage_FetchOffers(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveChains(ctx, []model.Chain{{ID: "rema", Name: "Rema 1000"}, {ID: "kiwi", Name: "Kiwi"}}))

	original := 30.0
	inactive := testOffer(t, "o6", "rema", "Butter", 1, "2024-03-01", "2024-03-31")
	inactive.IsActive = false
	discounted := testOffer(t, "o1", "rema", "Sea Salt", 15, "2024-03-04", "2024-03-10")
	discounted.OriginalPrice = &original

	require.NoError(t, store.SaveOffers(ctx, []model.Offer{
		discounted,
		testOffer(t, "o0", "rema", "Olive Oil", 15, "2024-03-10", "2024-03-20"),
		testOffer(t, "o2", "kiwi", "Flour", 9, "2024-03-01", "2024-03-31"),
		testOffer(t, "o3", "meny", "Sugar", 5, "2024-03-01", "2024-03-31"),
		testOffer(t, "o4", "rema", "Pepper", 2, "2024-03-11", "2024-03-31"),
		testOffer(t, "o5", "kiwi", "Rice", 3, "2024-02-01", "2024-03-09"),
		inactive,
	}))

	got, err := store.FetchOffers(ctx, []string{"rema", "kiwi"}, parseDay(t, "2024-03-10"))
	require.NoError(t, err)

	assert.Equal(t, []string{"o2", "o0", "o1"}, offerIDs(got))
	assert.Equal(t, "Kiwi", got[0].ChainName)
	require.NotNil(t, got[2].OriginalPrice)
	assert.Equal(t, 30.0, *got[2].OriginalPrice)
	assert.Nil(t, got[0].OriginalPrice)
	assert.Equal(t, parseDay(t, "2024-03-04"), got[2].ValidFrom)
	assert.Equal(t, parseDay(t, "2024-03-10"), got[2].ValidUntil)
}

func TestSQLiteStorage_FetchOffersEmptyChains(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.FetchOffers(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_SaveOffersUpserts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	o := testOffer(t, "o1", "rema", "Salt", 15, "2024-03-01", "2024-03-31")
	o.ChainName = "Rema 1000"
	require.NoError(t, store.SaveOffers(ctx, []model.Offer{o}))

	o.Price = 12
	o.ChainName = "REMA"
	require.NoError(t, store.SaveOffers(ctx, []model.Offer{o}))

	all, err := store.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 12.0, all[0].Price)
	assert.Equal(t, "REMA", all[0].ChainName)

	chains, err := store.GetChains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Chain{{ID: "rema", Name: "REMA"}}, chains)
}

func TestSQLiteStorage_SaveOffersValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name    string
		offer   model.Offer
		wantErr error
	}{
		{name: "missing id", offer: testOffer(t, "", "rema", "Salt", 1, "2024-03-01", "2024-03-02"), wantErr: ErrInvalidOffer},
		{name: "missing chain", offer: testOffer(t, "o1", "", "Salt", 1, "2024-03-01", "2024-03-02"), wantErr: ErrInvalidOffer},
		{name: "negative price", offer: testOffer(t, "o1", "rema", "Salt", -1, "2024-03-01", "2024-03-02"), wantErr: ErrInvalidOffer},
		{name: "window reversed", offer: testOffer(t, "o1", "rema", "Salt", 1, "2024-03-05", "2024-03-02"), wantErr: ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveOffers(ctx, []model.Offer{tt.offer})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	all, err := store.ListOffers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStorage_Staples(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveStaples(ctx, []model.PantryStaple{
		{ID: "salt", Name: "Salt", Category: model.CategorySpices, Icon: "🧂"},
		{ID: "oil", Name: "Olive oil", Category: model.CategoryOilFat},
		{ID: "foil", Name: "Foil"},
	}))

	staples, err := store.FetchStaples(ctx)
	require.NoError(t, err)
	require.Len(t, staples, 3)
	assert.Equal(t, "salt", staples[0].ID)
	assert.Equal(t, "🧂", staples[0].Icon)
	assert.Equal(t, model.CategoryOilFat, staples[1].Category)
	assert.Equal(t, model.CategoryOther, staples[2].Category)

	require.NoError(t, store.DeleteStaple(ctx, "foil"))
	assert.Error(t, store.DeleteStaple(ctx, "foil"))

	err = store.SaveStaples(ctx, []model.PantryStaple{{ID: "x", Name: "X", Category: "snacks"}})
	assert.ErrorIs(t, err, ErrInvalidStaple)
}
