package shops

import (
	"testing"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) *time.Time {
	t := time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func records() []dataset.Record {
	return []dataset.Record{
		{Fields: dataset.Row("sku", "A-1", "name", "Widget-Red", "units", 5.0, "revenue", 50.0, "shop", "Amazon"), Date: at(1)},
		{Fields: dataset.Row("sku", "A-2", "name", "Widget-Blue", "units", 2.0, "revenue", 20.0, "shop", "Amazon"), Date: at(2)},
		{Fields: dataset.Row("sku", "B-1", "name", "Gadget", "units", 10.0, "revenue", 100.0, "shop", "eBay"), Date: at(10)},
		{Fields: dataset.Row("sku", "C-1", "name", "Gizmo", "units", 3.0, "revenue", 30.0, "shop", "")},
	}
}

func TestSummarizeGroupsRawRowsByChannel(t *testing.T) {
	got := Summarize(records(), dataset.DateRange{})
	require.Len(t, got, 3)

	assert.Equal(t, "eBay", got[0].ShopName)
	assert.Equal(t, "Amazon", got[1].ShopName)
	assert.Equal(t, DefaultChannel, got[2].ShopName)

	amazon := got[1]
	assert.InDelta(t, 70, amazon.TotalRevenue, 1e-9)
	assert.InDelta(t, 7, amazon.TotalUnitsSold, 1e-9)
	assert.Equal(t, 1, amazon.ProductCount, "both variants share base A")

	assert.InDelta(t, 50, got[0].PercentageOfTotal, 1e-9)
	assert.InDelta(t, 35, amazon.PercentageOfTotal, 1e-9)
	assert.InDelta(t, 15, got[2].PercentageOfTotal, 1e-9)
}

func TestSummarizeDateFilterKeepsUndatedRows(t *testing.T) {
	r := dataset.DateRange{From: at(1), To: at(5)}
	got := Summarize(records(), r)
	require.Len(t, got, 2)

	_, ok := Find(got, "ebay")
	assert.False(t, ok, "eBay row is outside the range")

	other, ok := Find(got, DefaultChannel)
	require.True(t, ok)
	assert.InDelta(t, 30, other.TotalRevenue, 1e-9)
}

func TestSummarizeZeroRevenue(t *testing.T) {
	got := Summarize([]dataset.Record{
		{Fields: dataset.Row("sku", "A-1", "units", 1.0, "channel", "Shop")},
	}, dataset.DateRange{})
	require.Len(t, got, 1)
	assert.Zero(t, got[0].PercentageOfTotal)

	assert.Empty(t, Summarize(nil, dataset.DateRange{}))
}

func TestSummarizeTiesSortByName(t *testing.T) {
	got := Summarize([]dataset.Record{
		{Fields: dataset.Row("sku", "A-1", "revenue", 10.0, "shop", "Zalando")},
		{Fields: dataset.Row("sku", "B-1", "revenue", 10.0, "shop", "Etsy")},
	}, dataset.DateRange{})
	require.Len(t, got, 2)
	assert.Equal(t, "Etsy", got[0].ShopName)
	assert.Equal(t, "Zalando", got[1].ShopName)
}
