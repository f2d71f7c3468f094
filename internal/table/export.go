package table

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

const (
	CSVFile      = "features.csv"
	JSONFile     = "features.json"
	ManifestFile = "manifest.json"
)

// Manifest describes an exported table
type Manifest struct {
	Preset      string `json:"preset"`
	RunID       string `json:"run_id,omitempty"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	SHA256      string `json:"sha256"`
	GeneratedAt string `json:"generated_at"`
}

// Export writes features.csv, features.json and manifest.json into dir
func Export(dir, preset, runID string, t *Table) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(dir, CSVFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", CSVFile, err)
	}
	defer csvFile.Close()

	// Write to file and compute SHA256 simultaneously
	hasher := sha256.New()
	if err := t.WriteCSV(io.MultiWriter(csvFile, hasher)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", CSVFile, err)
	}
	sum := hex.EncodeToString(hasher.Sum(nil))

	jsonFile, err := os.Create(filepath.Join(dir, JSONFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", JSONFile, err)
	}
	defer jsonFile.Close()
	if err := t.WriteJSON(jsonFile); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", JSONFile, err)
	}

	manifest := &Manifest{
		Preset:      preset,
		RunID:       runID,
		Rows:        t.Len(),
		Columns:     len(t.Columns),
		SHA256:      sum,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	manifestFile, err := os.Create(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", ManifestFile, err)
	}
	defer manifestFile.Close()

	enc := json.NewEncoder(manifestFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", ManifestFile, err)
	}
	return manifest, nil
}
