package insights

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/columns"
	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/angelmondragon/salespulse-backend/pkg/pagination"
)

// Campaign sort keys.
const (
	CampaignSortDate  = "date"
	CampaignSortSpend = "spend"
	CampaignSortROAS  = "roas"
)

// CampaignSortKeys lists the accepted campaign sort keys; revenue is the default.
var CampaignSortKeys = []string{"revenue", CampaignSortDate, CampaignSortSpend, CampaignSortROAS}

// CampaignRow is one raw campaign line with its columns resolved.
type CampaignRow struct {
	Campaign    string     `json:"campaign"`
	Channel     string     `json:"channel"`
	Date        *time.Time `json:"date,omitempty"`
	Spend       float64    `json:"spend"`
	Revenue     float64    `json:"revenue"`
	Clicks      float64    `json:"clicks"`
	Impressions float64    `json:"impressions"`
	ROAS        float64    `json:"roas"`
	CTR         float64    `json:"ctr"`
}

type CampaignTotals struct {
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	ROAS        float64 `json:"roas"`
}

type CampaignReport struct {
	Items  []CampaignRow       `json:"items"`
	Totals CampaignTotals      `json:"totals"`
	Page   pagination.PageInfo `json:"page"`
	Meta   Meta                `json:"meta"`
}

// Campaigns lists date-filtered campaign rows. ROAS here is measured: revenue
// over the spend column of the row, 0 without spend.
func (s *Service) Campaigns(ctx context.Context, q Query) (CampaignReport, error) {
	records, meta, err := s.load(ctx, dataset.Campaigns, q)
	if err != nil {
		return CampaignReport{}, err
	}

	rows := make([]CampaignRow, 0, len(records))
	var totals CampaignTotals
	for _, record := range records {
		row := resolveCampaign(record)
		if row.Campaign == "" && row.Spend == 0 && row.Revenue == 0 {
			continue
		}
		totals.Spend += row.Spend
		totals.Revenue += row.Revenue
		totals.Clicks += row.Clicks
		totals.Impressions += row.Impressions
		rows = append(rows, row)
	}
	totals.ROAS = ratio(totals.Revenue, totals.Spend)

	sortCampaigns(rows, q.Sort, q.descending())
	items, page := pagination.Slice(rows, pagination.Params{Limit: q.Limit, Offset: q.Offset})
	meta.Rows = len(rows)
	return CampaignReport{Items: items, Totals: totals, Page: page, Meta: meta}, nil
}

func resolveCampaign(record dataset.Record) CampaignRow {
	fields := record.Fields
	row := CampaignRow{
		Campaign:    columns.TextOf(fields, columns.Campaign),
		Channel:     columns.TextOf(fields, columns.Channel),
		Date:        record.Date,
		Spend:       columns.NumberOf(fields, columns.Spend),
		Revenue:     columns.NumberOf(fields, columns.Revenue),
		Clicks:      columns.NumberOf(fields, columns.Clicks),
		Impressions: columns.NumberOf(fields, columns.Impressions),
	}
	row.ROAS = ratio(row.Revenue, row.Spend)
	row.CTR = ratio(row.Clicks, row.Impressions)
	return row
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func sortCampaigns(rows []CampaignRow, key string, desc bool) {
	less := func(a, b CampaignRow) bool { return a.Revenue < b.Revenue }
	switch strings.ToLower(key) {
	case CampaignSortSpend:
		less = func(a, b CampaignRow) bool { return a.Spend < b.Spend }
	case CampaignSortROAS:
		less = func(a, b CampaignRow) bool { return a.ROAS < b.ROAS }
	case CampaignSortDate:
		less = func(a, b CampaignRow) bool {
			switch {
			case a.Date == nil:
				return b.Date != nil
			case b.Date == nil:
				return false
			default:
				return a.Date.Before(*b.Date)
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
