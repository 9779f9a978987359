package model

// Actor identifies who is acting: the household whose list is edited and
// the user whose meal log is written. It is passed into every operation.
type Actor struct {
	HouseholdID string
	UserID      string
}

// Household holds the preferences used to filter offers.
type Household struct {
	ID              string
	Name            string
	PreferredChains []string
}
