package pipeline

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"skusort/internal"
	"skusort/internal/ranking"
	"skusort/internal/util"
)

const exportSheet = "Sheet1"

type ExportOptions struct {
	NameHeader string
	Derived    bool
}

func (o ExportOptions) headers() []string {
	name := o.NameHeader
	if name == "" {
		name = "名稱"
	}
	headers := []string{"SKU", name}
	if o.Derived {
		headers = append(headers, "product", "color", "size")
	}
	return headers
}

// ExportXLSX writes rows in the given order to a single-sheet workbook. keys
// is only read when derived columns are enabled and must then line up with
// rows.
func ExportXLSX(rows []internal.Record, keys []ranking.SortKey, opts ExportOptions) ([]byte, error) {
	if opts.Derived && len(keys) != len(rows) {
		return nil, fmt.Errorf("derived export needs one key per row: rows=%d keys=%d", len(rows), len(keys))
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet != exportSheet {
		if err := f.SetSheetName(sheet, exportSheet); err != nil {
			return nil, err
		}
		sheet = exportSheet
	}

	for i, h := range opts.headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []string{row.SKU, util.Deref(row.DisplayName)}
		if opts.Derived {
			values = append(values, keys[i].Product, keys[i].Color, keys[i].Size)
		}
		for c, value := range values {
			// excelize truncates longer cells without reporting it.
			if utf8.RuneCountInString(value) > excelize.TotalCellChars {
				return nil, fmt.Errorf("row %d (%s): cell exceeds %d characters", i+1, row.SKU, excelize.TotalCellChars)
			}
			cell, err := excelize.CoordinatesToCellName(c+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadExport loads a workbook written by ExportXLSX back into records. Blank
// name cells become nil display names.
func ReadExport(content []byte) ([]internal.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLookup, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: export has no header row", ErrMalformedLookup)
	}

	out := make([]internal.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, internal.Record{
			SKU:         pickCell(row, 0),
			DisplayName: util.NonEmptyPtr(pickCell(row, 1)),
		})
	}
	return out, nil
}
