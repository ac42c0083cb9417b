package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"skusort/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func lookupOpts(headerRow int) LookupOptions {
	return LookupOptions{
		HeaderRow:  headerRow,
		SKUColumns: []string{"平臺 SKU", "平臺SKU"},
		NameColumn: "自定義產品名稱",
	}
}

func TestLoadLookupHeaderOnSecondRow(t *testing.T) {
	blob := mkXLSX([][]any{
		{"商品對照表"},
		{"序號", "平臺SKU", "自定義產品名稱"},
		{1, "SKU-A", "TA00-黑-M"},
		{2, " SKU-B ", "TA01-白-L"},
		{3, "", "orphan"},
	})
	table, err := LoadLookup(blob, lookupOpts(2))
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 || table.Rows != 2 {
		t.Fatalf("len=%d rows=%d", table.Len(), table.Rows)
	}
	if got := table.Names("SKU-B"); len(got) != 1 || got[0] != "TA01-白-L" {
		t.Fatalf("names=%v", got)
	}
}

func TestLoadLookupHeaderOnFirstRowWithSpacedColumn(t *testing.T) {
	blob := mkXLSX([][]any{
		{"平臺 SKU", "自定義產品名稱"},
		{"SKU-A", "TA00-黑-M"},
		{"SKU-A", "TA00-黑-M (2)"},
	})
	table, err := LoadLookup(blob, lookupOpts(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Names("SKU-A"); len(got) != 2 {
		t.Fatalf("names=%v", got)
	}
}

func TestLoadLookupMissingColumn(t *testing.T) {
	blob := mkXLSX([][]any{
		{"title"},
		{"SKU", "自定義產品名稱"},
		{"SKU-A", "TA00-黑-M"},
	})
	_, err := LoadLookup(blob, lookupOpts(2))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err=%v", err)
	}
	if len(cfgErr.Missing) != 1 || len(cfgErr.Found) != 2 || cfgErr.Found[0] != "SKU" {
		t.Fatalf("cfgErr=%+v", cfgErr)
	}
}

func TestLoadLookupHeaderRowPastEnd(t *testing.T) {
	blob := mkXLSX([][]any{{"平臺SKU", "自定義產品名稱"}})
	_, err := LoadLookup(blob, lookupOpts(5))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err=%v", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Fatalf("cfgErr=%+v", cfgErr)
	}
}

func TestLoadLookupMalformed(t *testing.T) {
	_, err := LoadLookup([]byte("not a workbook"), lookupOpts(1))
	if !errors.Is(err, ErrMalformedLookup) {
		t.Fatalf("err=%v", err)
	}
}

func TestLoadLookupKeepsInnerWhitespaceInSKU(t *testing.T) {
	blob := mkXLSX([][]any{
		{"平臺SKU", "自定義產品名稱"},
		{" AB  12 ", "TA00-黑-M"},
	})
	table, err := LoadLookup(blob, lookupOpts(1))
	if err != nil {
		t.Fatal(err)
	}

	rows := Join([]internal.SourceRecord{{SKU: "AB  12"}, {SKU: "AB 12"}}, table)
	if len(rows) != 2 {
		t.Fatalf("rows=%+v", rows)
	}
	if rows[0].Name() != "TA00-黑-M" {
		t.Fatalf("identical SKU did not join: %+v", rows[0])
	}
	if rows[1].DisplayName != nil {
		t.Fatalf("collapsed SKU should not join: %+v", rows[1])
	}
}
