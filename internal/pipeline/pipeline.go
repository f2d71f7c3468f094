package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"battle-features/internal/battle"
	"battle-features/internal/db"
	"battle-features/internal/discord"
	"battle-features/internal/features"
	"battle-features/internal/storage"
	"battle-features/internal/table"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrNoInput   = errors.New("no battle files found")
	ErrNoBattles = errors.New("no valid battles to extract")
)

// Options configure one extraction run
type Options struct {
	// Input is a JSONL file or a directory of them. When empty, the warm files
	// under StoragePath are read and, with Archive set, moved to cold afterwards.
	Input       string
	StoragePath string
	Archive     bool

	OutputDir string
	Config    features.Config
	Workers   int
	Strict    bool // abort on the first invalid battle

	Sinks    []NamedSink
	Notifier Notifier
	Progress features.ProgressFunc
}

// Summary describes a finished run
type Summary struct {
	RunID       string
	Preset      string
	Inputs      []string
	Lines       int
	ParseErrors int
	Duplicates  int
	Battles     int
	Records     int
	Failed      []*features.BattleError
	Columns     int
	Manifest    *table.Manifest
	Sinks       []string
	Archived    []string
	Duration    time.Duration
}

// Run reads battles, extracts features, exports the table and pushes it to
// every sink
func Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString(), Preset: opts.Config.Name}

	err := run(ctx, opts, sum)
	sum.Duration = time.Since(start)
	if err != nil {
		notifyFailure(opts, sum, err)
		return sum, err
	}

	if opts.Notifier != nil {
		report := discord.RunReport{
			RunID:      sum.RunID,
			Preset:     sum.Preset,
			Battles:    sum.Records,
			Failed:     len(sum.Failed),
			Duplicates: sum.Duplicates,
			Columns:    sum.Columns,
			Runtime:    sum.Duration,
			Sinks:      sum.Sinks,
		}
		if err := opts.Notifier.SendExtractionComplete(ctx, report); err != nil {
			log.Printf("[Pipeline] Warning: failed to send notification: %v", err)
		}
	}
	return sum, nil
}

func run(ctx context.Context, opts Options, sum *Summary) error {
	fromWarm := opts.Input == ""
	inputs, err := resolveInputs(opts)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}
	sum.Inputs = inputs
	log.Printf("[Pipeline] Reading %d file(s)", len(inputs))

	read, err := battle.ReadFiles(inputs, battle.NewDeduper(0))
	if err != nil {
		return fmt.Errorf("failed to read battles: %w", err)
	}
	sum.Lines = read.Lines
	sum.ParseErrors = len(read.Errors)
	sum.Duplicates = read.Duplicates
	sum.Battles = len(read.Battles)
	if sum.Battles == 0 {
		return ErrNoBattles
	}

	extractOpts := []features.Option{features.WithWorkers(opts.Workers)}
	if opts.Progress != nil {
		extractOpts = append(extractOpts, features.WithProgress(opts.Progress, 1000))
	}
	extractor, err := features.New(opts.Config, extractOpts...)
	if err != nil {
		return err
	}

	res, err := extractor.ExtractAll(ctx, read.Battles)
	if err != nil {
		return err
	}
	sum.Failed = res.Errors
	for _, be := range res.Errors {
		if opts.Strict {
			return be
		}
		log.Printf("[Extract] Warning: skipping %v", be)
	}
	if len(res.Records) == 0 {
		return ErrNoBattles
	}
	sum.Records = len(res.Records)

	tbl := table.Materialize(res.Records)
	sum.Columns = len(tbl.Columns)
	log.Printf("[Pipeline] Extracted %d records with %d columns (%d failed)", sum.Records, sum.Columns, len(res.Errors))

	if opts.OutputDir != "" {
		manifest, err := table.Export(opts.OutputDir, sum.Preset, sum.RunID, tbl)
		if err != nil {
			return err
		}
		sum.Manifest = manifest
		log.Printf("[Pipeline] Wrote %s (sha256 %s)", filepath.Join(opts.OutputDir, table.CSVFile), manifest.SHA256)
	}

	if err := pushSinks(ctx, opts.Sinks, sum, tbl); err != nil {
		return err
	}

	if fromWarm && opts.Archive {
		coldDir := filepath.Join(opts.StoragePath, "cold")
		for _, path := range inputs {
			coldPath, err := storage.CompressToCold(path, coldDir)
			if err != nil {
				log.Printf("[Pipeline] Warning: failed to archive %s: %v", filepath.Base(path), err)
				continue
			}
			sum.Archived = append(sum.Archived, coldPath)
		}
	}
	return nil
}

func resolveInputs(opts Options) ([]string, error) {
	if opts.Input != "" {
		return battle.FindInputs(opts.Input)
	}
	if opts.StoragePath == "" {
		return nil, fmt.Errorf("%w: neither an input path nor a storage path was given", ErrNoInput)
	}
	return storage.WarmFiles(opts.StoragePath)
}

func pushSinks(ctx context.Context, sinks []NamedSink, sum *Summary, tbl *table.Table) error {
	if len(sinks) == 0 {
		return nil
	}
	rows, err := db.RowsFromTable(tbl)
	if err != nil {
		return err
	}
	run := db.Run{
		ID:        sum.RunID,
		Preset:    sum.Preset,
		Rows:      tbl.Len(),
		Columns:   len(tbl.Columns),
		CreatedAt: time.Now(),
	}

	for _, s := range sinks {
		if err := s.Sink.CreateTables(ctx); err != nil {
			return fmt.Errorf("%s: failed to create tables: %w", s.Name, err)
		}
		if err := s.Sink.SaveRun(ctx, run, rows); err != nil {
			return fmt.Errorf("%s: failed to save run: %w", s.Name, err)
		}
		log.Printf("[Pipeline] Pushed %d rows to %s", len(rows), s.Name)
	}
	sum.Sinks = lo.Map(sinks, func(s NamedSink, _ int) string { return s.Name })
	return nil
}

func notifyFailure(opts Options, sum *Summary, runErr error) {
	if opts.Notifier == nil {
		return
	}
	// The run context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := opts.Notifier.SendExtractionFailed(ctx, sum.RunID, sum.Preset, runErr, sum.Duration); err != nil {
		log.Printf("[Pipeline] Warning: failed to send failure notification: %v", err)
	}
}
