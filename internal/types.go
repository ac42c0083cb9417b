package internal

type AssembleMode string

const (
	ModeGroup3    AssembleMode = "group3"
	ModeSeparator AssembleMode = "separator"
)

type SourceRecord struct {
	LineNo int
	ID     string
	SKU    string
	Name   string
}

type Record struct {
	SKU         string
	DisplayName *string
}

func (r Record) Name() string {
	if r.DisplayName == nil {
		return ""
	}
	return *r.DisplayName
}

type RunStats struct {
	Lines     int
	Records   int
	Rows      int
	Matched   int
	Unmatched int
}

type RunEntry struct {
	ID        int
	TraceID   string
	Mode      string
	Status    string
	Error     string
	Stats     RunStats
	TotalMs   float64
	CreatedAt string
}
