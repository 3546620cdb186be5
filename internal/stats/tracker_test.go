package stats

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ViewIncrementsViewsOnly(t *testing.T) {
	tr := Tracker{PopularityThreshold: 1, TrendingThreshold: 1}
	p := &models.Product{}

	require.NoError(t, tr.Record(p, EventView))
	require.NoError(t, tr.Record(p, EventView))

	assert.Equal(t, int64(2), p.Views)
	assert.Equal(t, int64(0), p.Sales)
	assert.True(t, p.IsTrending)
	assert.False(t, p.IsPopular)
}

func TestRecord_SaleIncrementsSalesOnly(t *testing.T) {
	tr := Tracker{PopularityThreshold: 1, TrendingThreshold: 1}
	p := &models.Product{}

	require.NoError(t, tr.Record(p, EventSale))
	assert.Equal(t, int64(1), p.Sales)
	assert.Equal(t, int64(0), p.Views)
	assert.False(t, p.IsPopular, "sales == threshold must not flag")

	require.NoError(t, tr.Record(p, EventSale))
	assert.True(t, p.IsPopular)
	assert.False(t, p.IsTrending)
}

func TestRecord_UnknownEvent(t *testing.T) {
	tr := Tracker{PopularityThreshold: 1, TrendingThreshold: 1}
	p := &models.Product{Views: 7, Sales: 3}
	tr.Refresh(p)

	err := tr.Record(p, Event("favorite"))

	require.ErrorIs(t, err, ErrUnknownEvent)
	assert.Equal(t, int64(7), p.Views)
	assert.Equal(t, int64(3), p.Sales)
}

func TestRecord_FlagsTrackThresholds(t *testing.T) {
	tr := Tracker{PopularityThreshold: 100, TrendingThreshold: 100}
	p := &models.Product{}

	for i := 0; i < 100; i++ {
		require.NoError(t, tr.Record(p, EventView))
		assert.False(t, p.IsTrending)
	}

	require.NoError(t, tr.Record(p, EventView))
	assert.True(t, p.IsTrending)
}

func TestRecord_CountersAreMonotone(t *testing.T) {
	tr := Tracker{PopularityThreshold: 5, TrendingThreshold: 5}
	p := &models.Product{}

	events := []Event{EventView, EventSale, EventView, EventView, EventSale}
	var lastViews, lastSales int64
	for _, ev := range events {
		require.NoError(t, tr.Record(p, ev))

		require.GreaterOrEqual(t, p.Views, lastViews)
		require.GreaterOrEqual(t, p.Sales, lastSales)
		require.Equal(t, int64(1), (p.Views-lastViews)+(p.Sales-lastSales),
			"exactly one counter moves by exactly 1")

		lastViews, lastSales = p.Views, p.Sales

		// Flags are never stale relative to the counters.
		require.Equal(t, p.Sales > tr.PopularityThreshold, p.IsPopular)
		require.Equal(t, p.Views > tr.TrendingThreshold, p.IsTrending)
	}
}
