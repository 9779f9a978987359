package offers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

type fakeSource struct {
	err    error
	offers []model.Offer
	calls  int
	asOf   time.Time
}

func (f *fakeSource) FetchOffers(_ context.Context, _ []string, asOf time.Time) ([]model.Offer, error) {
	f.calls++
	f.asOf = asOf
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func TestAdapter_FetchEligible(t *testing.T) {
	source := &fakeSource{offers: []model.Offer{
		testOffer("b", "rema", 20, "2024-03-01", "2024-03-31"),
		testOffer("a", "rema", 10, "2024-03-01", "2024-03-31"),
		testOffer("x", "meny", 1, "2024-03-01", "2024-03-31"),
		testOffer("old", "rema", 2, "2024-02-01", "2024-02-28"),
	}}
	adapter := NewAdapter(source, "test")

	got, err := adapter.FetchEligible(context.Background(), []string{"rema"}, time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, date("2024-03-10"), source.asOf)
}

func TestAdapter_EmptyChainsSkipsSource(t *testing.T) {
	source := &fakeSource{err: errors.New("must not be called")}
	adapter := NewAdapter(source, "test")

	got, err := adapter.FetchEligible(context.Background(), []string{}, date("2024-03-10"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, source.calls)
}

func TestAdapter_SourceFailure(t *testing.T) {
	cause := errors.New("connection refused")
	adapter := NewAdapter(&fakeSource{err: cause}, "test")

	_, err := adapter.FetchEligible(context.Background(), []string{"rema"}, date("2024-03-10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.True(t, common.IsRetryable(err))
}

func TestAdapter_CanceledContext(t *testing.T) {
	source := &fakeSource{}
	adapter := NewAdapter(source, "test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.FetchEligible(ctx, []string{"rema"}, date("2024-03-10"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, source.calls)
}

func TestAdapter_EligibleForHousehold(t *testing.T) {
	source := &fakeSource{offers: []model.Offer{
		testOffer("a", "kiwi", 10, "2024-03-01", "2024-03-31"),
		testOffer("b", "rema", 5, "2024-03-01", "2024-03-31"),
	}}
	adapter := NewAdapter(source, "test")

	got, err := adapter.EligibleForHousehold(context.Background(), &model.Household{ID: "h1", PreferredChains: []string{"kiwi"}}, date("2024-03-10"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))

	_, err = adapter.EligibleForHousehold(context.Background(), nil, date("2024-03-10"))
	assert.Error(t, err)
}
