package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Cell is one column label and its scalar value.
type Cell struct {
	Key   string
	Value any
}

// RawRow is one spreadsheet line. Cells keep the order the columns appeared in,
// which column resolution depends on.
type RawRow []Cell

var errRowNotObject = errors.New("dataset: raw row must be a JSON object")

// Row builds a RawRow from alternating key/value pairs.
func Row(pairs ...any) RawRow {
	row := make(RawRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		row = append(row, Cell{Key: key, Value: pairs[i+1]})
	}
	return row
}

// Keys returns the column labels in order.
func (r RawRow) Keys() []string {
	keys := make([]string, len(r))
	for i, cell := range r {
		keys[i] = cell.Key
	}
	return keys
}

// Get returns the value stored under the exact key.
func (r RawRow) Get(key string) (any, bool) {
	for _, cell := range r {
		if cell.Key == key {
			return cell.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the row as an object, keeping cell order.
func (r RawRow) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cell := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cell.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(cell.Value)
		if err != nil {
			return nil, fmt.Errorf("dataset: marshal %q: %w", cell.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object token by token so the key order survives.
func (r *RawRow) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errRowNotObject
	}

	row := RawRow{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errRowNotObject
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("dataset: decode %q: %w", key, err)
		}
		row = append(row, Cell{Key: key, Value: scalar(value)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = row
	return nil
}

// scalar turns json.Number into float64 and leaves everything else as decoded.
func scalar(value any) any {
	num, ok := value.(json.Number)
	if !ok {
		return value
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
