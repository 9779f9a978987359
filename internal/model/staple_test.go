package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStapleCategory(t *testing.T) {
	c, err := ParseStapleCategory(" Oil_Fat ")
	require.NoError(t, err)
	assert.Equal(t, CategoryOilFat, c)

	_, err = ParseStapleCategory("snacks")
	assert.Error(t, err)
}

func TestGroupStaplesByCategory(t *testing.T) {
	groups := GroupStaplesByCategory([]PantryStaple{
		{ID: "salt", Category: CategorySpices},
		{ID: "foil"},
		{ID: "pepper", Category: CategorySpices},
		{ID: "flour", Category: CategoryBaking},
	})

	require.Len(t, groups[CategorySpices], 2)
	assert.Equal(t, "salt", groups[CategorySpices][0].ID)
	assert.Equal(t, "pepper", groups[CategorySpices][1].ID)
	assert.Equal(t, "foil", groups[CategoryOther][0].ID)
	assert.Len(t, groups[CategoryBaking], 1)
	assert.Empty(t, groups[CategoryPreserves])
}
