package pipeline

import (
	"strings"

	"skusort/internal"
	"skusort/internal/util"
)

// Join left-joins records against the lookup table on exact SKU. Unmatched
// SKUs and blank lookup names come out with a nil display name. Nothing is
// deduplicated: every input occurrence yields one row per lookup entry.
func Join(records []internal.SourceRecord, table *LookupTable) []internal.Record {
	out := make([]internal.Record, 0, len(records))
	for _, rec := range records {
		sku := strings.TrimSpace(rec.SKU)
		names := table.Names(sku)
		if len(names) == 0 {
			out = append(out, internal.Record{SKU: sku})
			continue
		}
		for _, name := range names {
			out = append(out, internal.Record{SKU: sku, DisplayName: util.NonEmptyPtr(name)})
		}
	}
	return out
}
