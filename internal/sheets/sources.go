package sheets

import (
	"context"
	"fmt"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/angelmondragon/salespulse-backend/pkg/config"
)

// RowSource is anything that yields raw rows for one dataset.
type RowSource interface {
	Fetch(ctx context.Context) ([]dataset.RawRow, error)
}

// Sources is the pair of readers behind one dataset. Fallback is nil when rows
// come from a local workbook.
type Sources struct {
	Primary  RowSource
	Kind     dataset.Source
	Fallback RowSource
}

// NewSources resolves where the named dataset is read from. The fallback
// endpoint is always asked for its default sheet.
func NewSources(cfg config.SheetsConfig, name string, opts ...Option) (Sources, error) {
	sheet, err := sheetFor(cfg, name)
	if err != nil {
		return Sources{}, err
	}
	if cfg.UsesWorkbook() {
		return Sources{
			Primary: NewWorkbookSource(cfg.WorkbookPath, sheet),
			Kind:    dataset.SourceWorkbook,
		}, nil
	}

	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	primary, err := NewClient(cfg.URL, opts...)
	if err != nil {
		return Sources{}, err
	}
	fallback, err := NewClient(cfg.FallbackEndpoint(), opts...)
	if err != nil {
		return Sources{}, err
	}
	return Sources{
		Primary:  primary.Sheet(sheet),
		Kind:     dataset.SourcePrimary,
		Fallback: fallback.Sheet(""),
	}, nil
}

func sheetFor(cfg config.SheetsConfig, name string) (string, error) {
	switch name {
	case dataset.Products:
		return cfg.ProductsSheet, nil
	case dataset.Campaigns:
		return cfg.CampaignSheet, nil
	default:
		return "", fmt.Errorf("unknown dataset %q", name)
	}
}
