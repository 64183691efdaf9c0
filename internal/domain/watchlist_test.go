package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionOf(t *testing.T) {
	assert.Equal(t, RegionUS, RegionOf("AAPL"))
	assert.Equal(t, RegionUS, RegionOf("BRK-B"))
	assert.Equal(t, RegionTH, RegionOf("CPALL.BK"))
	assert.Equal(t, RegionTH, RegionOf("PTT.BK"))
}

func TestCategoryFamilies(t *testing.T) {
	assert.Equal(t, FamilyBreakout, CategoryIPOUS.Family())
	assert.Equal(t, FamilyBreakout, CategoryIPOTH.Family())
	assert.Equal(t, FamilyBreakout, CategorySP500.Family())
	assert.Equal(t, FamilyBreakout, CategoryMoonshot.Family())
	assert.Equal(t, FamilyRebound, CategoryFavourite.Family())

	// Unknown categories fall back to the dominant family.
	assert.Equal(t, FamilyBreakout, Category("MYSTERY").Family())
}

func TestCategoryIsIPO(t *testing.T) {
	assert.True(t, CategoryIPOUS.IsIPO())
	assert.True(t, CategoryIPOTH.IsIPO())
	assert.False(t, CategorySP500.IsIPO())
	assert.False(t, CategoryFavourite.IsIPO())
}
