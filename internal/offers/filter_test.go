package offers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/larder/internal/model"
)

func date(s string) time.Time {
	d, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testOffer(id, chain string, price float64, from, until string) model.Offer {
	return model.Offer{
		ID:          id,
		ProductName: "Product " + id,
		ChainID:     chain,
		Price:       price,
		ValidFrom:   date(from),
		ValidUntil:  date(until),
		IsActive:    true,
	}
}

func ids(offers []model.Offer) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.ID)
	}
	return out
}

func TestEligible(t *testing.T) {
	chains := map[string]struct{}{"rema": {}}
	day := date("2024-03-10")

	tests := []struct {
		name   string
		modify func(o *model.Offer)
		want   bool
	}{
		{name: "inside window", want: true},
		{name: "first day inclusive", modify: func(o *model.Offer) { o.ValidFrom = day }, want: true},
		{name: "last day inclusive", modify: func(o *model.Offer) { o.ValidUntil = day }, want: true},
		{name: "starts tomorrow", modify: func(o *model.Offer) { o.ValidFrom = day.AddDate(0, 0, 1) }, want: false},
		{name: "ended yesterday", modify: func(o *model.Offer) { o.ValidUntil = day.AddDate(0, 0, -1) }, want: false},
		{name: "inactive", modify: func(o *model.Offer) { o.IsActive = false }, want: false},
		{name: "other chain", modify: func(o *model.Offer) { o.ChainID = "kiwi" }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOffer("o1", "rema", 10, "2024-03-04", "2024-03-17")
			if tt.modify != nil {
				tt.modify(&o)
			}
			assert.Equal(t, tt.want, Eligible(o, chains, day))
		})
	}
}

func TestEligible_IgnoresTimeOfDay(t *testing.T) {
	chains := map[string]struct{}{"rema": {}}
	o := testOffer("o1", "rema", 10, "2024-03-04", "2024-03-10")

	lateEvening := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.True(t, Eligible(o, chains, lateEvening))
}

func TestFilter(t *testing.T) {
	all := []model.Offer{
		testOffer("b", "rema", 15, "2024-03-01", "2024-03-31"),
		testOffer("a", "rema", 15, "2024-03-01", "2024-03-31"),
		testOffer("c", "kiwi", 5, "2024-03-01", "2024-03-31"),
		testOffer("d", "meny", 1, "2024-03-01", "2024-03-31"),
		testOffer("e", "rema", 20, "2024-04-01", "2024-04-30"),
		testOffer("f", "kiwi", 12, "2024-03-01", "2024-03-31"),
	}

	got := Filter(all, []string{"rema", "kiwi"}, date("2024-03-10"))

	assert.Equal(t, []string{"c", "f", "a", "b"}, ids(got))
	assert.Equal(t, "b", all[0].ID, "input must not be reordered")
}

func TestFilter_EmptyChainSet(t *testing.T) {
	all := []model.Offer{testOffer("a", "rema", 15, "2024-03-01", "2024-03-31")}

	assert.Empty(t, Filter(all, nil, date("2024-03-10")))
	assert.Empty(t, Filter(all, []string{""}, date("2024-03-10")))
}

func TestFilter_Properties(t *testing.T) {
	day := date("2024-03-10")
	chains := []string{"rema", "kiwi"}
	var all []model.Offer
	for i, chain := range []string{"rema", "kiwi", "meny", "rema", "kiwi", "rema"} {
		o := testOffer(fmt.Sprintf("o%d", i), chain, float64(30-i*3),
			fmt.Sprintf("2024-03-%02d", 1+i*2), fmt.Sprintf("2024-03-%02d", 10+i))
		o.IsActive = i != 4
		all = append(all, o)
	}

	got := Filter(all, chains, day)
	set := chainSet(chains)
	for i, o := range got {
		assert.True(t, Eligible(o, set, day))
		if i > 0 {
			prev := got[i-1]
			assert.True(t, prev.Price < o.Price || (prev.Price == o.Price && prev.ID < o.ID))
		}
	}
}
