package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/testutil"
	"github.com/Veraticus/larder/internal/testutil/catalog"
)

func TestBuilder_SeedsStorage(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDBWithCatalog(t, func(b *catalog.Builder) *catalog.Builder {
		return b.
			WithChain("rema", "Rema 1000").
			WithOffer("rema", "Sea Salt", 12).
			WithStaples(catalog.StapleSalt, catalog.StapleOliveOil).
			WithHousehold("h1", "rema")
	})

	offers, err := db.Storage.FetchOffers(ctx, []string{"rema"}, time.Now())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Rema 1000", offers[0].ChainName)

	staples, err := db.Storage.FetchStaples(ctx)
	require.NoError(t, err)
	assert.Len(t, staples, 2)

	household, err := db.Storage.GetHousehold(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rema"}, household.PreferredChains)
}

func TestBuilder_ValidBetween(t *testing.T) {
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b := catalog.NewBuilder(t).
		WithOffer("rema", "Now", 1).
		ValidBetween(past, past.AddDate(0, 0, 7)).
		WithOffer("rema", "Then", 2)

	offers := b.Offers()
	require.Len(t, offers, 2)
	assert.True(t, offers[0].ValidOn(time.Now()))
	assert.False(t, offers[1].ValidOn(time.Now()))
	assert.Equal(t, "offer-02", offers[1].ID)
}
