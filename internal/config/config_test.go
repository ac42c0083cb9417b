package config

import (
	"os"
	"testing"

	"skusort/internal"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ASSEMBLE_MODE", "LOOKUP_HEADER_ROW", "LOOKUP_SKU_COLUMNS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssembleMode != internal.ModeGroup3 {
		t.Fatalf("mode=%q", cfg.AssembleMode)
	}
	if cfg.LookupHeaderRow != 2 {
		t.Fatalf("headerRow=%d", cfg.LookupHeaderRow)
	}
	if len(cfg.LookupSKUColumns) != 2 {
		t.Fatalf("skuColumns=%v", cfg.LookupSKUColumns)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSEMBLE_MODE", "Separator")
	t.Setenv("LOOKUP_HEADER_ROW", "1")
	t.Setenv("LOOKUP_SKU_COLUMNS", " Platform SKU , ,SKU")
	t.Setenv("EXPORT_DERIVED", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssembleMode != internal.ModeSeparator {
		t.Fatalf("mode=%q", cfg.AssembleMode)
	}
	if cfg.LookupHeaderRow != 1 {
		t.Fatalf("headerRow=%d", cfg.LookupHeaderRow)
	}
	if len(cfg.LookupSKUColumns) != 2 || cfg.LookupSKUColumns[0] != "Platform SKU" || cfg.LookupSKUColumns[1] != "SKU" {
		t.Fatalf("skuColumns=%q", cfg.LookupSKUColumns)
	}
	if !cfg.ExportDerived {
		t.Fatal("expected derived columns")
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("ASSEMBLE_MODE", "pairs")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestValidateHeaderRow(t *testing.T) {
	cfg := Config{AssembleMode: internal.ModeGroup3, LookupHeaderRow: 0, LookupSKUColumns: []string{"SKU"}, LookupNameColumn: "name"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for header row 0")
	}
}
