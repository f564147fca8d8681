package insights

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/angelmondragon/salespulse-backend/internal/products"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Products"

// utf8BOM makes spreadsheet apps read the export as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{
	"base_id", "base_name", "units_sold", "revenue", "avg_price",
	"stock_on_hand", "in_orders", "available", "stock_status", "variant_count", "sales_channel",
}

func exportRecord(p products.Product) []string {
	return []string{
		p.BaseID,
		p.BaseName,
		formatNumber(p.UnitsSold),
		formatMoney(p.Revenue),
		formatMoney(p.AvgPrice),
		formatNumber(p.StockOnHand),
		formatNumber(p.InOrders),
		formatNumber(p.Available),
		string(p.StockStatus),
		strconv.Itoa(p.VariantCount),
		p.SalesChannel,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// exportProducts returns the full sorted list; exports ignore paging.
func (s *Service) exportProducts(ctx context.Context, q Query) ([]products.Product, error) {
	_, list, _, err := s.aggregate(ctx, q)
	if err != nil {
		return nil, err
	}
	return products.SortProducts(list, q.sortKey(), q.descending()), nil
}

// ExportCSV writes the filtered, sorted product list as semicolon separated
// values behind a UTF-8 byte order mark.
func (s *Service) ExportCSV(ctx context.Context, q Query, w io.Writer) error {
	list, err := s.exportProducts(ctx, q)
	if err != nil {
		return err
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv bom")
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(exportHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for _, p := range list {
		if err := cw.Write(exportRecord(p)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

// ExportXLSX writes the same list as a workbook with typed numeric cells.
func (s *Service) ExportXLSX(ctx context.Context, q Query, w io.Writer) error {
	list, err := s.exportProducts(ctx, q)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "name export sheet")
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write xlsx header")
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, p := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "address xlsx row")
		}
		row := []any{
			p.BaseID, p.BaseName, p.UnitsSold, p.Revenue, p.AvgPrice,
			p.StockOnHand, p.InOrders, p.Available, string(p.StockStatus), p.VariantCount, p.SalesChannel,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("write xlsx row %d", i+2))
		}
	}

	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write xlsx")
	}
	return nil
}
