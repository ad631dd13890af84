package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

func day(s string) time.Time {
	if t, ok := quarterEnd(s); ok {
		return t
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func point(date string, v float64) SeriesPoint {
	return SeriesPoint{Label: date, Date: day(date), Value: schema.Num(v)}
}

func TestDeriveLatest_Daily(t *testing.T) {
	points := []SeriesPoint{
		point("2024-06-14", 5421.03),
		point("2024-06-13", 5433.74),
		point("2024-06-12", 5375.32),
	}

	rec, err := DeriveLatest(points, StrategyDaily, 2)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-14", rec.Latest.ReleaseDate)
	assert.Equal(t, 5421.03, rec.Latest.Actual.Float64())
	assert.Equal(t, 5433.74, rec.Latest.Previous.Float64())
	assert.Nil(t, rec.Latest.Forecast)

	require.NotNil(t, rec.Surprise)
	assert.InDelta(t, -12.71, *rec.Surprise, 1e-9)

	// Daily cadence has no discrete next release.
	assert.Nil(t, rec.Next)
}

func TestDeriveLatest_PeriodWholeUnitSurprise(t *testing.T) {
	points := []SeriesPoint{
		point("2024Q1", 2329.3),
		point("2023Q4", 2325.8),
	}

	rec, err := DeriveLatest(points, StrategyPeriod, 0)
	require.NoError(t, err)
	require.NotNil(t, rec.Surprise)
	assert.Equal(t, 4.0, *rec.Surprise)

	// Period cadence has a next release without a published date.
	require.NotNil(t, rec.Next)
	assert.True(t, rec.Next.Undetermined)
	assert.Equal(t, 2329.3, rec.Next.Previous.Float64())
}

func TestDeriveLatest_Empty(t *testing.T) {
	_, err := DeriveLatest(nil, StrategyDaily, 2)
	assert.ErrorIs(t, err, schema.ErrNoReleaseData)
}

func TestYearOverYear(t *testing.T) {
	points := []SeriesPoint{
		point("2024-05-01", 21000),
		point("2024-04-01", 20900),
		point("2023-05-01", 20000),
		point("2023-04-01", 19800),
		point("2022-05-01", 19000),
	}

	out, err := YearOverYear("m2", points)
	require.NoError(t, err)

	// 2024-05-01 anchors to 2023-05-01 (exactly 365+ days earlier),
	// 2024-04-01 to 2023-04-01, 2023-05-01 to 2022-05-01; older points
	// have no anchor and fall off.
	require.Len(t, out, 3)
	assert.Equal(t, "2024-05-01", out[0].Label)
	assert.Equal(t, 5.0, out[0].Value.Float64())
	assert.Equal(t, schema.UnitPercent, out[0].Value.Unit)
	assert.InDelta(t, 5.56, out[1].Value.Float64(), 1e-9)
}

func TestYearOverYear_Idempotent(t *testing.T) {
	points := []SeriesPoint{
		point("2024-05-01", 21000),
		point("2023-05-01", 20000),
		point("2022-05-01", 19000),
	}

	first, err := YearOverYear("m2", points)
	require.NoError(t, err)
	second, err := YearOverYear("m2", points)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestYearOverYear_NoAnchor(t *testing.T) {
	points := []SeriesPoint{
		point("2024-05-01", 21000),
		point("2024-04-01", 20900),
	}

	_, err := YearOverYear("m2", points)
	var ihe *schema.InsufficientHistoryError
	require.ErrorAs(t, err, &ihe)
	assert.Equal(t, "m2", ihe.IndicatorID)
}

func TestYearOverYear_ZeroAnchorReported(t *testing.T) {
	points := []SeriesPoint{
		point("2024-05-01", 21000),
		point("2023-05-01", 0),
	}

	_, err := YearOverYear("m2", points)
	var ihe *schema.InsufficientHistoryError
	require.ErrorAs(t, err, &ihe)
	assert.Contains(t, ihe.Reason, "zero")
}
