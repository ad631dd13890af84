package crawl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinn357/investment-app-sub000/internal/adapters"
	"github.com/sinn357/investment-app-sub000/internal/registry"
	"github.com/sinn357/investment-app-sub000/internal/store"
)

const testCatalog = `indicators:
  - id: good_csv
    name: Good CSV
    url: https://example.com/good.csv
    kind: csv_series
    category: interest
    enabled: true
  - id: bad_csv
    name: Bad CSV
    url: https://example.com/bad.csv
    kind: csv_series
    category: credit
    enabled: true
  - id: disabled_one
    name: Disabled
    url: https://example.com/x.csv
    kind: csv_series
    category: trade
    enabled: false
`

type routingFetcher struct{}

func (routingFetcher) Fetch(_ context.Context, url string) (string, error) {
	switch url {
	case "https://example.com/good.csv":
		return "DATE,VALUE\n2024-05-01,5.33\n2024-06-01,5.31\n", nil
	default:
		return "", errors.New("connection refused")
	}
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	reg, err := registry.Load(path)
	require.NoError(t, err)
	return reg
}

func TestRefresh_PerIndicatorFailuresDoNotAbortBatch(t *testing.T) {
	reg := testRegistry(t)
	set := adapters.NewSet(routingFetcher{}, routingFetcher{}, "")
	st := store.NewMemory()

	runner := NewRunner(reg, set, st, nil)
	runner.Workers = 2

	batch, err := runner.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Len(t, batch.Outcomes, 2)
	assert.NotEmpty(t, batch.RunID)

	// Only the successful indicator is persisted; the disabled one was
	// never crawled.
	assert.Equal(t, []string{"good_csv"}, st.IDs())

	for _, outcome := range batch.Outcomes {
		if outcome.IndicatorID == "bad_csv" {
			assert.NotEmpty(t, outcome.Error)
		}
	}
}

func TestRefresh_BudgetBoundsTheBatch(t *testing.T) {
	reg := testRegistry(t)
	set := adapters.NewSet(routingFetcher{}, routingFetcher{}, "")
	st := store.NewMemory()

	runner := NewRunner(reg, set, st, nil)
	runner.Budget = time.Minute

	started := time.Now()
	_, err := runner.Refresh(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(started), time.Minute)
}
