package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/insights"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/pagination"
)

const dateOnly = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryDate reads an RFC3339 timestamp or a YYYY-MM-DD date. A date-only
// value marks the start of that UTC day, or its last instant when endOfDay is
// set, so ?to=2026-03-31 includes rows stamped during the 31st.
func ParseQueryDate(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date").
			WithDetails(map[string]any{"field": key, "formats": []string{"RFC3339", dateOnly}})
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

type reportParams struct {
	Sort  string `json:"sort"`
	Order string `json:"order" validate:"omitempty,oneof=asc desc priority"`
}

// ParseReportQuery reads the shared report parameters: from, to, sort, order,
// limit and offset. sortKeys lists the sort values the endpoint accepts.
func ParseReportQuery(r *http.Request, sortKeys []string) (insights.Query, error) {
	values := r.URL.Query()
	params := reportParams{
		Sort:  strings.ToLower(strings.TrimSpace(values.Get("sort"))),
		Order: strings.ToLower(strings.TrimSpace(values.Get("order"))),
	}
	if err := validate.Struct(params); err != nil {
		return insights.Query{}, formatValidationErrors(err)
	}
	if params.Sort != "" && len(sortKeys) > 0 {
		if err := validate.Var(params.Sort, "oneof="+strings.Join(sortKeys, " ")); err != nil {
			return insights.Query{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"sort": "must be one of: " + strings.Join(sortKeys, ", ")})
		}
	}

	from, err := ParseQueryDate(r, "from", false)
	if err != nil {
		return insights.Query{}, err
	}
	to, err := ParseQueryDate(r, "to", true)
	if err != nil {
		return insights.Query{}, err
	}
	if from != nil && to != nil && from.After(*to) {
		return insights.Query{}, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to").
			WithDetails(map[string]any{"from": from, "to": to})
	}

	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return insights.Query{}, err
	}
	offset, err := ParseQueryInt(r, "offset", 0, 0, 1_000_000)
	if err != nil {
		return insights.Query{}, err
	}

	return insights.Query{
		From:   from,
		To:     to,
		Sort:   params.Sort,
		Order:  params.Order,
		Limit:  limit,
		Offset: offset,
	}, nil
}
