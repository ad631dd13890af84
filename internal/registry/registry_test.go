package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinn357/investment-app-sub000/internal/adapters"
	"github.com/sinn357/investment-app-sub000/internal/schema"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, r.All())

	ind, ok := r.Get("ism_manufacturing")
	require.True(t, ok)
	assert.Equal(t, adapters.KindCalendar, ind.Kind)
	assert.Equal(t, CategoryBusiness, ind.Category)
	assert.True(t, ind.Enabled)

	m2, ok := r.Get("m2_growth")
	require.True(t, ok)
	assert.True(t, m2.CalculateYoY)

	// The percent-published FRED series carry the unit hint into their
	// extraction source.
	for _, id := range []string{"high_yield_spread", "ig_spread", "fed_funds_rate", "yield_curve_10y2y"} {
		ind, ok := r.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, schema.UnitPercent, ind.Unit, id)
		assert.Equal(t, schema.UnitPercent, ind.Source().Unit, id)
	}
}

func TestLoad_CrawlableExcludesManualAndDisabled(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)

	for _, ind := range r.Crawlable() {
		assert.True(t, ind.Enabled, ind.ID)
		assert.False(t, ind.ManualCheck, ind.ID)
	}
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	bad := "indicators:\n  - id: x\n    category: bogus\n    kind: calendar\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown category")
}

func TestLoad_RejectsUnknownUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	bad := "indicators:\n  - id: x\n    category: credit\n    kind: csv_series\n    unit: bogus\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown unit")
}

func TestLoad_RejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	bad := "indicators:\n" +
		"  - id: x\n    category: business\n    kind: calendar\n" +
		"  - id: x\n    category: credit\n    kind: calendar\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "duplicate id")
}

func TestByCategory_CoversCatalogCategories(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)

	groups := r.ByCategory()
	for _, cat := range []Category{CategoryBusiness, CategoryEmployment, CategoryInterest, CategoryInflation, CategoryCredit, CategorySentiment} {
		assert.NotEmpty(t, groups[cat], string(cat))
	}
}
