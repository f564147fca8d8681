package dataset

import (
	"strings"
	"time"
)

// Dataset families served by the spreadsheet endpoint.
const (
	Products  = "products"
	Campaigns = "campaigns"
)

// Names lists every known dataset family.
func Names() []string {
	return []string{Products, Campaigns}
}

// Valid reports whether name is a known dataset family.
func Valid(name string) bool {
	switch strings.TrimSpace(name) {
	case Products, Campaigns:
		return true
	default:
		return false
	}
}

// Source identifies where a snapshot came from.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceWorkbook Source = "workbook"
)

// Record is a raw row plus its row-level date, parsed once at fetch time.
type Record struct {
	Fields RawRow     `json:"fields"`
	Date   *time.Time `json:"date,omitempty"`
}

// DateFunc extracts the row-level date, nil when the row has none.
type DateFunc func(RawRow) *time.Time

// BuildRecords pairs every row with its parsed date.
func BuildRecords(rows []RawRow, dateOf DateFunc) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := Record{Fields: row}
		if dateOf != nil {
			record.Date = dateOf(row)
		}
		records = append(records, record)
	}
	return records
}

// Rows strips the dates back off.
func Rows(records []Record) []RawRow {
	rows := make([]RawRow, len(records))
	for i, record := range records {
		rows[i] = record.Fields
	}
	return rows
}

// Snapshot is the parsed result of one successful fetch.
type Snapshot struct {
	Dataset   string    `json:"dataset"`
	Records   []Record  `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    Source    `json:"source"`
}

// DateRange is an optional, inclusive interval. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// NewDateRange defaults To to now when only From is given.
func NewDateRange(from, to *time.Time, now time.Time) DateRange {
	if from != nil && to == nil {
		end := now
		to = &end
	}
	return DateRange{From: from, To: to}
}

// IsZero reports whether the range filters nothing.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether a row dated at date belongs in the range.
// Undated rows are always included.
func (r DateRange) Contains(date *time.Time) bool {
	if date == nil {
		return true
	}
	if r.From != nil && date.Before(*r.From) {
		return false
	}
	if r.To != nil && date.After(*r.To) {
		return false
	}
	return true
}

// Filter keeps the records inside the range, preserving order.
func Filter(records []Record, r DateRange) []Record {
	if r.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, record := range records {
		if r.Contains(record.Date) {
			out = append(out, record)
		}
	}
	return out
}
