package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"skusort/internal"
	"skusort/internal/config"
	"skusort/internal/ranking"
)

type Input struct {
	PDF    []byte
	Lookup []byte
}

type Result struct {
	TraceID string
	Rows    []internal.Record
	Keys    []ranking.SortKey
	XLSX    []byte
	Stats   internal.RunStats
}

// RunJournal records finished runs. The sqlite store satisfies it.
type RunJournal interface {
	InsertRun(entry internal.RunEntry) error
}

type Runner struct {
	cfg        config.Config
	extractor  TextExtractor
	normalizer *ranking.Normalizer
	journal    RunJournal
	log        *slog.Logger
}

type RunnerOption func(*Runner)

func WithExtractor(e TextExtractor) RunnerOption {
	return func(r *Runner) { r.extractor = e }
}

func WithJournal(j RunJournal) RunnerOption {
	return func(r *Runner) { r.journal = j }
}

func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

func NewRunner(cfg config.Config, normalizer *ranking.Normalizer, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:        cfg,
		extractor:  NewPDFExtractor(),
		normalizer: normalizer,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes extract, assemble, join, sort and export for one upload pair.
// Any error aborts the run and no partial result is returned.
func (r *Runner) Run(ctx context.Context, in Input) (Result, error) {
	start := time.Now()
	trace := traceID()
	stats := internal.RunStats{}

	res, err := r.run(ctx, in, &stats)
	entry := internal.RunEntry{
		TraceID: trace,
		Mode:    string(r.cfg.AssembleMode),
		Status:  "ok",
		Stats:   stats,
		TotalMs: float64(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Status = "failed"
		entry.Error = err.Error()
		r.log.Warn("run failed", "trace", trace, "error", err, "lines", stats.Lines, "records", stats.Records)
	} else {
		r.log.Info("run done", "trace", trace, "rows", stats.Rows, "matched", stats.Matched, "unmatched", stats.Unmatched, "ms", entry.TotalMs)
	}
	if r.journal != nil {
		if jerr := r.journal.InsertRun(entry); jerr != nil {
			r.log.Error("journal write failed", "trace", trace, "error", jerr)
		}
	}
	if err != nil {
		return Result{}, err
	}

	res.TraceID = trace
	return res, nil
}

func (r *Runner) run(ctx context.Context, in Input, stats *internal.RunStats) (Result, error) {
	lines, err := r.extractor.Lines(ctx, in.PDF)
	if err != nil {
		return Result{}, err
	}
	stats.Lines = len(lines)
	if len(lines) == 0 {
		return Result{}, ErrNoLines
	}

	records, err := Assemble(lines, AssembleOptions{Mode: r.cfg.AssembleMode, Separator: r.cfg.AssembleSeparator})
	if err != nil {
		return Result{}, err
	}
	stats.Records = len(records)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	table, err := LoadLookup(in.Lookup, LookupOptions{
		Sheet:      r.cfg.LookupSheet,
		HeaderRow:  r.cfg.LookupHeaderRow,
		SKUColumns: r.cfg.LookupSKUColumns,
		NameColumn: r.cfg.LookupNameColumn,
	})
	if err != nil {
		return Result{}, err
	}

	joined := Join(records, table)
	for _, row := range joined {
		if row.DisplayName == nil {
			stats.Unmatched++
		} else {
			stats.Matched++
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sorted, keys := r.normalizer.Sort(joined)
	stats.Rows = len(sorted)

	blob, err := ExportXLSX(sorted, keys, ExportOptions{NameHeader: r.cfg.OutputNameHeader, Derived: r.cfg.ExportDerived})
	if err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}

	return Result{Rows: sorted, Keys: keys, XLSX: blob, Stats: *stats}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
