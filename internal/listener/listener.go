package listener

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"skusort/internal/config"
	"skusort/internal/pipeline"
)

type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (pipeline.Result, error)
}

// Service polls a drop directory for raw .eml files. Each file is one
// independent run; it is moved to done/ or failed/ afterwards so nothing is
// processed twice.
type Service struct {
	cfg    config.Config
	runner Runner
	log    *slog.Logger
}

type CycleResult struct {
	Seen     int
	Exported int
	Failed   int
}

func NewService(cfg config.Config, runner Runner, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg, runner: runner, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	for {
		res, err := s.RunCycle(ctx)
		if err != nil && ctx.Err() == nil {
			s.log.Error("watch cycle error", "error", err)
		} else if res.Seen > 0 {
			s.log.Info("watch cycle done", "seen", res.Seen, "exported", res.Exported, "failed", res.Failed)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	entries, err := os.ReadDir(s.cfg.WatchDir)
	if err != nil {
		return CycleResult{}, err
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".eml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	res := CycleResult{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		src := filepath.Join(s.cfg.WatchDir, name)
		err := s.processFile(ctx, src)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// interrupted, not bad input: the next cycle picks the file up again
			return res, err
		}
		res.Seen++
		if err != nil {
			res.Failed++
			s.log.Warn("mail drop failed", "file", name, "error", err)
			if merr := moveTo(src, filepath.Join(s.cfg.WatchDir, "failed")); merr != nil {
				return res, merr
			}
			continue
		}
		res.Exported++
		if err := moveTo(src, filepath.Join(s.cfg.WatchDir, "done")); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Service) processFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	in, _, err := pipeline.InputFromEmail(raw)
	if err != nil {
		return err
	}
	result, err := s.runner.Run(ctx, in)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(s.cfg.OutputDir, outputName(filepath.Base(path), raw))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, result.XLSX, 0o644)
}

func outputName(file string, raw []byte) string {
	sum := sha256.Sum256(raw)
	base := sanitizeName(strings.TrimSuffix(file, filepath.Ext(file)))
	return fmt.Sprintf("%s_%s.xlsx", base, hex.EncodeToString(sum[:4]))
}

func moveTo(src, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(src, filepath.Join(dir, filepath.Base(src)))
}

func sanitizeName(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := []rune(repl.Replace(input))
	if len(out) > 120 {
		out = out[:120]
	}
	return string(out)
}
