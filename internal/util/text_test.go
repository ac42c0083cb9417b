package util

import "testing"

func TestHeaderKey(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{a: "平臺 SKU", b: "平臺SKU"},
		{a: " Platform\tSKU ", b: "platformsku"},
		{a: "平臺　SKU", b: "平臺SKU"},
	}
	for _, tc := range cases {
		if HeaderKey(tc.a) != HeaderKey(tc.b) {
			t.Fatalf("%q and %q should fold equal", tc.a, tc.b)
		}
	}
	if HeaderKey("SKU") == HeaderKey("平臺 SKU") {
		t.Fatal("distinct headers folded equal")
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("  A001 \r\n\r\nTA00-黑-M\n\n  名稱 \r")
	if len(lines) != 3 {
		t.Fatalf("len=%d lines=%q", len(lines), lines)
	}
	if lines[0] != "A001" || lines[1] != "TA00-黑-M" || lines[2] != "名稱" {
		t.Fatalf("lines=%q", lines)
	}
}

func TestNormalizeSpaces(t *testing.T) {
	if got := NormalizeSpaces(" TA00  黑\t M "); got != "TA00 黑 M" {
		t.Fatalf("got %q", got)
	}
}

func TestNonEmptyPtr(t *testing.T) {
	if NonEmptyPtr("  ") != nil {
		t.Fatal("blank should be nil")
	}
	if v := NonEmptyPtr(" x "); v == nil || *v != "x" {
		t.Fatalf("got %v", v)
	}
}
