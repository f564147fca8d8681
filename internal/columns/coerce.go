package columns

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/xuri/excelize/v2"
)

// Coercion never fails. Spreadsheet cells are dirty; an unparsable value
// becomes 0 or "" and the row still counts.

var currencyTokens = []string{"r$", "eur", "usd", "brl", "chf", "€", "$", "£", "%"}

// Number converts a cell to float64. Numeric strings may use German
// ("1.234,56") or English ("1,234.56") notation and carry currency or percent
// signs. A lone comma is a decimal separator; a lone dot is a decimal point;
// repeated separators of one kind are thousands grouping.
func Number(value any) float64 {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		f = parseNumeric(v)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumeric(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}
	for _, token := range currencyTokens {
		s = strings.ReplaceAll(s, token, "")
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Text converts a cell to trimmed text. Numbers are formatted without
// trailing zeros so a numeric SKU like 1001 stays "1001".
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
}

const (
	excelSerialMax  = 2958465 // 9999-12-31
	epochMillisMin  = 1e11
	epochSecondsMin = 1e9
)

// ParseDate reads a cell as a point in time. Strings are tried against common
// ISO, German and Portuguese layouts; numbers are Excel serial days, epoch
// seconds or epoch milliseconds depending on magnitude.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromNumber(f)
		}
		return time.Time{}, false
	default:
		n := Number(value)
		if n == 0 {
			return time.Time{}, false
		}
		return fromNumber(n)
	}
}

func fromNumber(n float64) (time.Time, bool) {
	switch {
	case n <= 0:
		return time.Time{}, false
	case n >= epochMillisMin:
		return time.UnixMilli(int64(n)).UTC(), true
	case n >= epochSecondsMin:
		return time.Unix(int64(n), 0).UTC(), true
	case n <= excelSerialMax:
		t, err := excelize.ExcelDateToTime(n, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// DateOf parses the row-level date from any date column, nil when the row has
// no date or it cannot be read. Such rows pass every date filter.
func DateOf(row dataset.RawRow) *time.Time {
	value, ok := Resolve(row, Date)
	if !ok {
		return nil
	}
	t, ok := ParseDate(value)
	if !ok {
		return nil
	}
	return &t
}
