package sheets

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// WorkbookSource reads rows from a local .xlsx export of the spreadsheet. The
// first row holds the column labels.
type WorkbookSource struct {
	path  string
	sheet string
}

// NewWorkbookSource reads sheet from path, or the first sheet when sheet is
// empty or missing from the workbook.
func NewWorkbookSource(path, sheet string) WorkbookSource {
	return WorkbookSource{path: strings.TrimSpace(path), sheet: strings.TrimSpace(sheet)}
}

func (w WorkbookSource) Fetch(ctx context.Context) ([]dataset.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "workbook read canceled")
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("open workbook %s", w.path))
	}
	defer func() { _ = f.Close() }()
	return readRows(f, w.sheet)
}

// ReadWorkbook parses an .xlsx stream the same way WorkbookSource does.
func ReadWorkbook(r io.Reader, sheet string) ([]dataset.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataShape, err, "open workbook")
	}
	defer func() { _ = f.Close() }()
	return readRows(f, strings.TrimSpace(sheet))
}

func readRows(f *excelize.File, sheet string) ([]dataset.RawRow, error) {
	name := pickSheet(f.GetSheetList(), sheet)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDataShape, "workbook has no sheets")
	}

	grid, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataShape, err, fmt.Sprintf("read sheet %s", name))
	}
	if len(grid) == 0 {
		return []dataset.RawRow{}, nil
	}

	header := make([]string, len(grid[0]))
	for i, label := range grid[0] {
		header[i] = strings.TrimSpace(label)
	}

	rows := make([]dataset.RawRow, 0, len(grid)-1)
	for _, line := range grid[1:] {
		row := make(dataset.RawRow, 0, len(header))
		empty := true
		for i, label := range header {
			if label == "" {
				continue
			}
			var raw string
			if i < len(line) {
				raw = line[i]
			}
			if strings.TrimSpace(raw) != "" {
				empty = false
			}
			row = append(row, dataset.Cell{Key: label, Value: cellValue(raw)})
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func pickSheet(names []string, want string) string {
	if len(names) == 0 {
		return ""
	}
	for _, name := range names {
		if want != "" && strings.EqualFold(name, want) {
			return name
		}
	}
	return names[0]
}

// cellValue turns raw numeric cells into numbers. Text that only looks numeric
// after reformatting, such as a zero-padded SKU, stays text.
func cellValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || strconv.FormatFloat(f, 'f', -1, 64) != trimmed {
		return trimmed
	}
	return f
}
