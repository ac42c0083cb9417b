package pipeline

import (
	"fmt"
	"strings"

	"skusort/internal"
)

type AssembleOptions struct {
	Mode      internal.AssembleMode
	Separator string
}

func Assemble(lines []string, opts AssembleOptions) ([]internal.SourceRecord, error) {
	switch opts.Mode {
	case internal.ModeGroup3, "":
		return assembleGroups(lines), nil
	case internal.ModeSeparator:
		if opts.Separator == "" {
			return nil, fmt.Errorf("separator mode needs a separator")
		}
		return assembleSeparated(lines, opts.Separator), nil
	default:
		return nil, fmt.Errorf("unsupported assemble mode: %s", opts.Mode)
	}
}

// assembleGroups reads consecutive (identifier, SKU, name) triples. A
// trailing partial group is dropped.
func assembleGroups(lines []string) []internal.SourceRecord {
	out := make([]internal.SourceRecord, 0, len(lines)/3)
	for i := 0; i+2 < len(lines); i += 3 {
		out = append(out, internal.SourceRecord{
			LineNo: i + 1,
			ID:     strings.TrimSpace(lines[i]),
			SKU:    strings.TrimSpace(lines[i+1]),
			Name:   strings.TrimSpace(lines[i+2]),
		})
	}
	return out
}

func assembleSeparated(lines []string, sep string) []internal.SourceRecord {
	out := []internal.SourceRecord{}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, sep) {
			continue
		}
		out = append(out, internal.SourceRecord{LineNo: i + 1, SKU: line})
	}
	return out
}
