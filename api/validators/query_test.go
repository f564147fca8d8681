package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/salespulse-backend/internal/products"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/pagination"
)

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestParseReportQueryDefaults(t *testing.T) {
	q, err := ParseReportQuery(get("/api/v1/products"), products.SortKeys)
	require.NoError(t, err)
	assert.Nil(t, q.From)
	assert.Nil(t, q.To)
	assert.Equal(t, pagination.DefaultLimit, q.Limit)
	assert.Zero(t, q.Offset)
	assert.Empty(t, q.Sort)
}

func TestParseReportQueryDates(t *testing.T) {
	q, err := ParseReportQuery(get("/api/v1/products?from=2026-03-01&to=2026-03-31&sort=Units&order=ASC&limit=5&offset=10"), products.SortKeys)
	require.NoError(t, err)
	require.NotNil(t, q.From)
	require.NotNil(t, q.To)
	assert.True(t, q.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, q.To.Equal(time.Date(2026, 3, 31, 23, 59, 59, 999999999, time.UTC)), "date-only to covers the whole day")
	assert.Equal(t, "units", q.Sort)
	assert.Equal(t, "asc", q.Order)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Offset)

	q, err = ParseReportQuery(get("/api/v1/products?to=2026-03-31T12:00:00Z"), nil)
	require.NoError(t, err)
	assert.True(t, q.To.Equal(time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)), "timestamps are taken as given")
}

func TestParseReportQueryRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown sort":   "/x?sort=colour",
		"unknown order":  "/x?order=sideways",
		"bad date":       "/x?from=31.03.2026",
		"inverted range": "/x?from=2026-04-01&to=2026-03-01",
		"limit too big":  "/x?limit=501",
		"limit zero":     "/x?limit=0",
		"negative skip":  "/x?offset=-1",
		"numeric limit":  "/x?limit=ten",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReportQuery(get(target), products.SortKeys)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestParseReportQueryAcceptsPriorityOrder(t *testing.T) {
	q, err := ParseReportQuery(get("/x?order=priority"), nil)
	require.NoError(t, err)
	assert.Equal(t, "priority", q.Order)
}
