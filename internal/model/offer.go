package model

import "time"

// Chain is a retail brand or store group that publishes offers.
type Chain struct {
	ID   string
	Name string
}

// Offer is a time-bounded discounted product listing tied to a chain.
// Offers are read-only once fetched.
type Offer struct {
	ValidFrom     time.Time // inclusive calendar date
	ValidUntil    time.Time // inclusive calendar date
	OriginalPrice *float64
	ID            string
	ProductName   string
	ChainID       string
	ChainName     string
	Price         float64 // price with discount applied
	IsActive      bool
}

// ValidOn reports whether the offer's validity window covers the given day.
func (o Offer) ValidOn(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(o.ValidFrom)) && !d.After(Day(o.ValidUntil))
}

// Discount returns how much cheaper the offer is than its original price.
// It is zero when no original price is known.
func (o Offer) Discount() float64 {
	if o.OriginalPrice == nil || *o.OriginalPrice <= o.Price {
		return 0
	}
	return *o.OriginalPrice - o.Price
}
