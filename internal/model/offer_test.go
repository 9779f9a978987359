package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestOffer_ValidOn(t *testing.T) {
	offer := Offer{
		ValidFrom:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		day  time.Time
		name string
		want bool
	}{
		{name: "day before", day: time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC), want: false},
		{name: "first day", day: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), want: true},
		{name: "middle", day: time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC), want: true},
		{name: "last day late evening", day: time.Date(2026, 3, 8, 23, 30, 0, 0, time.UTC), want: true},
		{name: "day after", day: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, offer.ValidOn(tt.day))
		})
	}
}

func TestOffer_Discount(t *testing.T) {
	assert.Zero(t, Offer{Price: 10}.Discount())
	assert.Zero(t, Offer{Price: 10, OriginalPrice: ptr(8.0)}.Discount())
	assert.InDelta(t, 5.5, Offer{Price: 14.5, OriginalPrice: ptr(20.0)}.Discount(), 1e-9)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	late := time.Date(2026, 3, 2, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Day(late))
	assert.Equal(t, "2026-03-02", FormatDay(late))

	parsed, err := ParseDay("2026-03-02")
	assert.NoError(t, err)
	assert.Equal(t, Day(late), parsed)

	_, err = ParseDay("02.03.2026")
	assert.Error(t, err)
}
