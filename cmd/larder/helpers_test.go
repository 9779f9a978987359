package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/testutil"
)

func TestResolveItemID(t *testing.T) {
	list := &model.ShoppingList{Items: []model.ShoppingListItem{
		{ID: "3f2a9c10-aaaa"},
		{ID: "3f2b0000-bbbb"},
		{ID: "77"},
	}}

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr error
	}{
		{"full id", "77", "77", nil},
		{"unique prefix", "3f2a", "3f2a9c10-aaaa", nil},
		{"ambiguous prefix", "3f2", "", common.ErrInvalidConfig},
		{"unknown", "zz", "", common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveItemID(list, tt.prefix)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveItemID(nil, "77")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDateFlag(t *testing.T) {
	cmd := &cobra.Command{}
	addDateFlag(cmd)

	day, err := dateFlag(cmd)
	require.NoError(t, err)
	assert.Equal(t, model.Day(time.Now()), day)

	require.NoError(t, cmd.Flags().Set("date", "2026-02-28"))
	day, err = dateFlag(cmd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), day)

	require.NoError(t, cmd.Flags().Set("date", "28/02/2026"))
	_, err = dateFlag(cmd)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestOfferRecord_ToModel(t *testing.T) {
	inactive := false
	tests := []struct {
		name       string
		record     offerRecord
		wantActive bool
		wantErr    bool
	}{
		{
			name:       "defaults to active",
			record:     offerRecord{ID: "o1", ProductName: " Salt ", ChainID: "rema", ValidFrom: "2026-03-01", ValidUntil: "2026-03-07", Price: 12},
			wantActive: true,
		},
		{
			name:   "explicitly inactive",
			record: offerRecord{ID: "o2", ChainID: "rema", ValidFrom: "2026-03-01", ValidUntil: "2026-03-07", IsActive: &inactive},
		},
		{
			name:    "bad date",
			record:  offerRecord{ID: "o3", ValidFrom: "March 1", ValidUntil: "2026-03-07"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer, err := tt.record.toModel()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, offer.IsActive)
			assert.True(t, offer.ValidOn(time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC)))
		})
	}

	offer, err := tests[0].record.toModel()
	require.NoError(t, err)
	assert.Equal(t, "Salt", offer.ProductName)
}

func TestStapleRecord_ToModel(t *testing.T) {
	s, err := stapleRecord{ID: "salt", Name: "salt", Category: "Spices"}.toModel()
	require.NoError(t, err)
	assert.Equal(t, model.CategorySpices, s.Category)

	s, err = stapleRecord{ID: "foil", Name: "foil"}.toModel()
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, s.Category)

	_, err = stapleRecord{ID: "x", Name: "x", Category: "gadgets"}.toModel()
	assert.Error(t, err)
}

func TestImportOffers_Batches(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	day := model.Day(time.Now())

	all := make([]model.Offer, 0, offerImportBatch+5)
	for i := 0; i < offerImportBatch+5; i++ {
		all = append(all, model.Offer{
			ID:          "offer-" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			ProductName: "Product",
			ChainID:     "rema",
			ChainName:   "Rema 1000",
			Price:       float64(i + 1),
			ValidFrom:   day,
			ValidUntil:  day,
			IsActive:    true,
		})
	}

	var batches []int
	n, err := importOffers(ctx, db.Storage, all, func(k int) { batches = append(batches, k) })
	require.NoError(t, err)
	assert.Equal(t, len(all), n)
	assert.Equal(t, []int{offerImportBatch, 5}, batches)

	stored, err := db.Storage.FetchOffers(ctx, []string{"rema"}, day)
	require.NoError(t, err)
	assert.Len(t, stored, len(all))
}

func TestImportOffers_Cancelled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := importOffers(ctx, db.Storage, []model.Offer{{ID: "o1"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestReadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staples.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"salt","name":"salt","colour":"white"}]`), 0o600))

	var records []stapleRecord
	assert.Error(t, readJSONFile(path, &records, true))

	records = nil
	require.NoError(t, readJSONFile(path, &records, false))
	require.Len(t, records, 1)
	assert.Equal(t, "salt", records[0].ID)

	assert.Error(t, readJSONFile(filepath.Join(dir, "missing.json"), &records, false))
}
