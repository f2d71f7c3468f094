package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"battle-features/internal/config"
	"battle-features/internal/features"
	"battle-features/internal/pipeline"
)

// CLI flags
var (
	input       = flag.String("input", "", "JSONL file or directory of battles (default: warm storage)")
	preset      = flag.String("preset", "", "Feature preset (default: FEATURE_PRESET or \"default\")")
	outputDir   = flag.String("output-dir", "./export", "Directory to write features.csv, features.json and manifest.json")
	presetsFile = flag.String("presets", "", "YAML file with extra presets (default: PRESETS_FILE)")
	workers     = flag.Int("workers", 0, "Battles extracted in parallel (default: EXTRACT_WORKERS or one per CPU)")
	strict      = flag.Bool("strict", false, "Abort on the first invalid battle")
	archive     = flag.Bool("archive", false, "Move processed warm files to cold storage")
	skipExport  = flag.Bool("skip-export", false, "Skip the CSV/JSON export")
	skipSinks   = flag.Bool("skip-sinks", false, "Skip pushing to SQLite/Turso/Postgres")
	listPresets = flag.Bool("list-presets", false, "Print the available presets and exit")
)

func main() {
	flag.Parse()

	if path := config.LoadDotEnv(); path != "" {
		fmt.Printf("Loaded .env from: %s\n", path)
	}

	settings, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *presetsFile == "" {
		*presetsFile = settings.PresetsFile
	}
	if *presetsFile != "" {
		names, err := config.RegisterPresetFile(*presetsFile)
		if err != nil {
			log.Fatalf("Failed to load presets: %v", err)
		}
		fmt.Printf("Registered presets from %s: %s\n", *presetsFile, strings.Join(names, ", "))
	}

	if *listPresets {
		for _, name := range features.PresetNames() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := settings.ResolvePreset(*preset)
	if err != nil {
		log.Fatalf("Failed to resolve preset: %v", err)
	}
	if *workers == 0 {
		*workers = settings.Workers
	}
	if *input == "" && settings.StoragePath == "" {
		log.Fatal("Either -input or BATTLE_STORAGE_PATH must be set")
	}

	ctx := pipeline.SetupSignalHandler(context.Background(), "Extract")

	var sinks []pipeline.NamedSink
	if !*skipSinks {
		sinks, err = pipeline.OpenSinks(ctx, settings)
		if err != nil {
			log.Fatalf("Failed to open sinks: %v", err)
		}
		defer pipeline.CloseSinks(sinks)
	}

	opts := pipeline.Options{
		Input:       *input,
		StoragePath: settings.StoragePath,
		Archive:     *archive,
		Config:      cfg,
		Workers:     *workers,
		Strict:      *strict,
		Sinks:       sinks,
		Notifier:    pipeline.NewNotifier(settings),
		Progress: func(done, total int) {
			fmt.Printf("  Extracted %d/%d battles\n", done, total)
		},
	}
	if !*skipExport {
		opts.OutputDir = *outputDir
	}

	fmt.Printf("Extracting features with preset %q (low HP threshold %.2f)\n", cfg.Name, cfg.LowHPThreshold)

	sum, err := pipeline.Run(ctx, opts)
	if err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Println("Extraction interrupted")
		}
		pipeline.CloseSinks(sinks)
		log.Fatalf("Extraction failed: %v", err)
	}

	printSummary(sum)
}

func printSummary(sum *pipeline.Summary) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("Extraction complete")
	fmt.Println("========================================")
	fmt.Printf("Run ID:        %s\n", sum.RunID)
	fmt.Printf("Preset:        %s\n", sum.Preset)
	fmt.Printf("Files:         %d\n", len(sum.Inputs))
	fmt.Printf("Lines:         %d (%d unparseable, %d duplicates)\n", sum.Lines, sum.ParseErrors, sum.Duplicates)
	fmt.Printf("Records:       %d of %d battles (%d failed)\n", sum.Records, sum.Battles, len(sum.Failed))
	fmt.Printf("Columns:       %d\n", sum.Columns)
	if sum.Manifest != nil {
		fmt.Printf("CSV sha256:    %s\n", sum.Manifest.SHA256)
	}
	if len(sum.Sinks) > 0 {
		fmt.Printf("Sinks:         %s\n", strings.Join(sum.Sinks, ", "))
	}
	if len(sum.Archived) > 0 {
		fmt.Printf("Archived:      %d file(s) to cold storage\n", len(sum.Archived))
	}
	fmt.Printf("Duration:      %s\n", sum.Duration.Round(time.Millisecond))
}
