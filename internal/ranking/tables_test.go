package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTablesEmptyPathUsesDefaults(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatal(err)
	}
	if len(tables.Products) != 5 || len(tables.Colors) != 13 || len(tables.Sizes) != 12 {
		t.Fatalf("tables=%+v", tables)
	}
}

func TestParseTablesKeepsDefaultsForMissingLists(t *testing.T) {
	tables, err := ParseTables([]byte("products: [TC00, TA00]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if tables.Products[0] != "TC00" || len(tables.Products) != 2 {
		t.Fatalf("products=%v", tables.Products)
	}
	if len(tables.Colors) != len(DefaultTables().Colors) || tables.Sizes[0] != "M" {
		t.Fatalf("tables=%+v", tables)
	}
}

func TestParseTablesRejectsBadLists(t *testing.T) {
	for _, blob := range []string{
		"colors: [黑, 白, 黑]\n",
		"sizes: [M, \"\"]\n",
		"products: {a: 1}\n",
	} {
		if _, err := ParseTables([]byte(blob)); err == nil {
			t.Fatalf("expected error for %q", blob)
		}
	}
}

func TestLoadTablesFromFileRoundTrip(t *testing.T) {
	want := DefaultTables()
	want.Colors = append(want.Colors, "紫")

	blob, err := want.Encode()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "ranks.yaml")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTables(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Colors) != 14 || got.Colors[13] != "紫" {
		t.Fatalf("colors=%v", got.Colors)
	}

	n := NewNormalizer(got)
	if _, rank := n.Color("TA00-紫-M"); rank != 13 {
		t.Fatalf("rank=%d", rank)
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
