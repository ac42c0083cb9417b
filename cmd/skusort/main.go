package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"skusort/internal"
	"skusort/internal/config"
	"skusort/internal/listener"
	"skusort/internal/pipeline"
	"skusort/internal/ranking"
	"skusort/internal/storage"
	"skusort/internal/web"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	tables, err := ranking.LoadTables(cfg.RankTablesPath)
	must(err)
	normalizer := ranking.NewNormalizer(tables)

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		pdfPath := fs.String("pdf", "", "sku listing pdf (or .txt with one line per row)")
		lookupPath := fs.String("lookup", "", "lookup xlsx path")
		output := fs.String("output", "", "output xlsx path")
		mode := fs.String("mode", "", "group3|separator (default from ASSEMBLE_MODE)")
		_ = fs.Parse(os.Args[2:])
		if *pdfPath == "" || *lookupPath == "" || *output == "" {
			must(fmt.Errorf("--pdf --lookup --output are required"))
		}
		applyMode(&cfg, *mode)

		pdfBlob, err := os.ReadFile(*pdfPath)
		must(err)
		lookupBlob, err := os.ReadFile(*lookupPath)
		must(err)

		opts := []pipeline.RunnerOption{pipeline.WithLogger(log)}
		if strings.EqualFold(filepath.Ext(*pdfPath), ".txt") {
			opts = append(opts, pipeline.WithExtractor(pipeline.PlainTextExtractor{}))
		}
		res, err := runOnce(cfg, normalizer, pipeline.Input{PDF: pdfBlob, Lookup: lookupBlob}, opts...)
		must(err)
		must(writeOutput(*output, res.XLSX))
		fmt.Printf("run done rows=%d matched=%d unmatched=%d output=%s\n", res.Stats.Rows, res.Stats.Matched, res.Stats.Unmatched, *output)
	case "run:mail":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		emlPath := fs.String("eml", "", "raw email with .pdf and .xlsx attachments")
		output := fs.String("output", "", "output xlsx path")
		mode := fs.String("mode", "", "group3|separator (default from ASSEMBLE_MODE)")
		_ = fs.Parse(os.Args[2:])
		if *emlPath == "" || *output == "" {
			must(fmt.Errorf("--eml --output are required"))
		}
		applyMode(&cfg, *mode)

		raw, err := os.ReadFile(*emlPath)
		must(err)
		in, subject, err := pipeline.InputFromEmail(raw)
		must(err)
		res, err := runOnce(cfg, normalizer, in, pipeline.WithLogger(log))
		must(err)
		must(writeOutput(*output, res.XLSX))
		fmt.Printf("run done subject=%q rows=%d matched=%d unmatched=%d output=%s\n", subject, res.Stats.Rows, res.Stats.Matched, res.Stats.Unmatched, *output)
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.HTTPAddr, "listen address")
		_ = fs.Parse(os.Args[2:])
		cfg.HTTPAddr = *addr

		must(withRunner(cfg, normalizer, log, func(ctx context.Context, runner *pipeline.Runner) error {
			return web.NewServer(cfg, runner, log).ListenAndServe(ctx)
		}))
	case "watch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", cfg.WatchDir, "drop directory for .eml files")
		out := fs.String("out", cfg.OutputDir, "output directory")
		_ = fs.Parse(os.Args[2:])
		cfg.WatchDir = *dir
		cfg.OutputDir = *out

		must(withRunner(cfg, normalizer, log, func(ctx context.Context, runner *pipeline.Runner) error {
			return listener.NewService(cfg, runner, log).Run(ctx)
		}))
	case "ranks":
		blob, err := normalizer.Tables().Encode()
		must(err)
		fmt.Print(string(blob))
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		if cfg.RunLogDB == "" {
			must(fmt.Errorf("RUN_LOG_DB is not set"))
		}
		runs, err := listRuns(cfg.RunLogDB, *limit)
		must(err)
		for _, r := range runs {
			printRun(r)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func runOnce(cfg config.Config, normalizer *ranking.Normalizer, in pipeline.Input, opts ...pipeline.RunnerOption) (pipeline.Result, error) {
	if cfg.RunLogDB != "" {
		db, err := storage.Open(cfg.RunLogDB)
		if err != nil {
			return pipeline.Result{}, err
		}
		defer db.Close()
		opts = append(opts, pipeline.WithJournal(db))
	}
	return pipeline.NewRunner(cfg, normalizer, opts...).Run(context.Background(), in)
}

func withRunner(cfg config.Config, normalizer *ranking.Normalizer, log *slog.Logger, fn func(context.Context, *pipeline.Runner) error) error {
	opts := []pipeline.RunnerOption{pipeline.WithLogger(log)}
	if cfg.RunLogDB != "" {
		db, err := storage.Open(cfg.RunLogDB)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, pipeline.WithJournal(db))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return fn(ctx, pipeline.NewRunner(cfg, normalizer, opts...))
}

func listRuns(path string, limit int) ([]internal.RunEntry, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.ListRuns(limit)
}

func applyMode(cfg *config.Config, mode string) {
	if strings.TrimSpace(mode) == "" {
		return
	}
	cfg.AssembleMode = internal.AssembleMode(strings.ToLower(strings.TrimSpace(mode)))
	must(cfg.Validate())
}

func writeOutput(path string, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

func printRun(r internal.RunEntry) {
	line := fmt.Sprintf("%s trace=%s mode=%s status=%s rows=%d matched=%d unmatched=%d ms=%.0f",
		r.CreatedAt, r.TraceID, r.Mode, r.Status, r.Stats.Rows, r.Stats.Matched, r.Stats.Unmatched, r.TotalMs)
	if r.Error != "" {
		line += " error=" + r.Error
	}
	fmt.Println(line)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func usage() {
	fmt.Println("usage: skusort <command>")
	fmt.Println("commands:")
	fmt.Println("  run --pdf=list.pdf --lookup=table.xlsx --output=out.xlsx [--mode=group3|separator]")
	fmt.Println("  run:mail --eml=order.eml --output=out.xlsx [--mode=group3|separator]")
	fmt.Println("  serve [--addr=:8080]")
	fmt.Println("  watch [--dir=inbox] [--out=out]")
	fmt.Println("  ranks")
	fmt.Println("  runs [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
