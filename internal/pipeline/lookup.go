package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"skusort/internal/util"
)

type LookupOptions struct {
	Sheet      string
	HeaderRow  int
	SKUColumns []string
	NameColumn string
}

// LookupTable maps a platform SKU to the display names listed for it, in
// file order.
type LookupTable struct {
	names   map[string][]string
	Columns []string
	Rows    int
}

func (t *LookupTable) Names(sku string) []string {
	if t == nil {
		return nil
	}
	return t.names[sku]
}

func (t *LookupTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

func LoadLookup(content []byte, opts LookupOptions) (*LookupTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLookup, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedLookup)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrMalformedLookup, sheet, err)
	}

	headerRow := opts.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	var headers []string
	if headerRow <= len(rows) {
		headers = normalizeCells(rows[headerRow-1])
	}

	skuIdx := findColumn(headers, opts.SKUColumns)
	nameIdx := findColumn(headers, []string{opts.NameColumn})
	if skuIdx < 0 || nameIdx < 0 {
		cfgErr := &ConfigError{Found: nonEmpty(headers)}
		if skuIdx < 0 {
			cfgErr.Missing = append(cfgErr.Missing, strings.Join(opts.SKUColumns, " | "))
		}
		if nameIdx < 0 {
			cfgErr.Missing = append(cfgErr.Missing, opts.NameColumn)
		}
		return nil, cfgErr
	}

	table := &LookupTable{names: map[string][]string{}, Columns: nonEmpty(headers)}
	// SKU cells are only trimmed: the join is an exact match against listing
	// lines, which keep their inner whitespace.
	for _, row := range rows[headerRow:] {
		sku := strings.TrimSpace(pickCell(row, skuIdx))
		if sku == "" {
			continue
		}
		table.names[sku] = append(table.names[sku], strings.TrimSpace(pickCell(row, nameIdx)))
		table.Rows++
	}
	return table, nil
}

func findColumn(headers []string, candidates []string) int {
	for _, c := range candidates {
		want := util.HeaderKey(c)
		if want == "" {
			continue
		}
		for i, h := range headers {
			if util.HeaderKey(h) == want {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.NormalizeSpaces(c))
	}
	return out
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
