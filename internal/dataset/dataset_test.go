package dataset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRawRowPreservesKeyOrder(t *testing.T) {
	payload := []byte(`{"Umsatz": "1.234,50", "SKU": "A-1", "Verkauft": 5, "aktiv": true, "notiz": null}`)

	var row RawRow
	require.NoError(t, json.Unmarshal(payload, &row))
	require.Equal(t, []string{"Umsatz", "SKU", "Verkauft", "aktiv", "notiz"}, row.Keys())

	units, ok := row.Get("Verkauft")
	require.True(t, ok)
	require.Equal(t, float64(5), units)

	_, ok = row.Get("missing")
	require.False(t, ok)

	encoded, err := json.Marshal(row)
	require.NoError(t, err)
	require.JSONEq(t, string(payload), string(encoded))
	require.Equal(t, `{"Umsatz":"1.234,50","SKU":"A-1","Verkauft":5,"aktiv":true,"notiz":null}`, string(encoded))
}

func TestRawRowRejectsNonObjects(t *testing.T) {
	var row RawRow
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
	require.Error(t, json.Unmarshal([]byte(`"text"`), &row))

	require.NoError(t, json.Unmarshal([]byte(`null`), &row))
	require.Nil(t, row)
}

func TestRowBuilderSkipsNonStringKeys(t *testing.T) {
	row := Row("sku", "A-1", 42, "ignored", "units", 3)
	require.Equal(t, []string{"sku", "units"}, row.Keys())
}

func TestSnapshotRoundTripRehydratesDates(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	snapshot := Snapshot{
		Dataset: Products,
		Records: []Record{
			{Fields: Row("sku", "A-1", "units", float64(5)), Date: &day},
			{Fields: Row("sku", "B-1", "units", float64(2))},
		},
		FetchedAt: time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC),
		Source:    SourcePrimary,
	}

	encoded, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, snapshot, decoded)
	require.NotNil(t, decoded.Records[0].Date)
	require.True(t, decoded.Records[0].Date.Equal(day))
}

func TestDateRangeFilterIsInclusiveAndKeepsUndated(t *testing.T) {
	d := func(day int) *time.Time {
		v := time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
		return &v
	}
	records := []Record{
		{Fields: Row("id", "before"), Date: d(1)},
		{Fields: Row("id", "from"), Date: d(5)},
		{Fields: Row("id", "undated")},
		{Fields: Row("id", "to"), Date: d(10)},
		{Fields: Row("id", "after"), Date: d(11)},
	}

	filtered := Filter(records, DateRange{From: d(5), To: d(10)})
	var ids []any
	for _, record := range filtered {
		id, _ := record.Fields.Get("id")
		ids = append(ids, id)
	}
	require.Equal(t, []any{"from", "undated", "to"}, ids)

	require.Len(t, Filter(records, DateRange{}), len(records))
}

func TestNewDateRangeDefaultsToNow(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	from := now.AddDate(0, 0, -7)

	r := NewDateRange(&from, nil, now)
	require.NotNil(t, r.To)
	require.True(t, r.To.Equal(now))

	open := NewDateRange(nil, nil, now)
	require.True(t, open.IsZero())
}

func TestBuildRecords(t *testing.T) {
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := []RawRow{Row("date", "2026-01-02"), Row("date", "")}
	records := BuildRecords(rows, func(row RawRow) *time.Time {
		if v, _ := row.Get("date"); v == "2026-01-02" {
			return &day
		}
		return nil
	})
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Date)
	require.Nil(t, records[1].Date)
	require.Equal(t, rows, Rows(records))
}

func TestValid(t *testing.T) {
	require.True(t, Valid(Products))
	require.True(t, Valid(" campaigns "))
	require.False(t, Valid("orders"))
	require.Equal(t, []string{Products, Campaigns}, Names())
}
