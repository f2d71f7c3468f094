package storage

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"battle-features/internal/battle"

	json "github.com/goccy/go-json"
)

const (
	// Rotation triggers
	DefaultMaxBattlesPerFile = 1000
	DefaultMaxFileAge        = 1 * time.Hour
)

// FileRotator writes incoming battles to rotating JSONL files.
// hot/ holds the file being written, warm/ holds closed files awaiting
// extraction and cold/ holds gzipped archives.
type FileRotator struct {
	mu sync.Mutex

	hotDir  string
	warmDir string
	coldDir string

	maxBattles int
	maxAge     time.Duration

	currentFile   *os.File
	currentWriter *bufio.Writer
	currentPath   string
	battleCount   int
	fileOpenedAt  time.Time
	seq           int
}

// NewFileRotator creates hot/warm/cold under baseDir and opens the first file.
// Zero limits fall back to the defaults.
func NewFileRotator(baseDir string, maxBattles int, maxAge time.Duration) (*FileRotator, error) {
	r := &FileRotator{
		hotDir:     filepath.Join(baseDir, "hot"),
		warmDir:    filepath.Join(baseDir, "warm"),
		coldDir:    filepath.Join(baseDir, "cold"),
		maxBattles: maxBattles,
		maxAge:     maxAge,
	}
	if r.maxBattles <= 0 {
		r.maxBattles = DefaultMaxBattlesPerFile
	}
	if r.maxAge <= 0 {
		r.maxAge = DefaultMaxFileAge
	}

	for _, dir := range []string{r.hotDir, r.warmDir, r.coldDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := r.rotate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRotator) WarmDir() string { return r.warmDir }
func (r *FileRotator) ColdDir() string { return r.coldDir }

// WriteBattle appends one battle as a JSONL line, flushes, and rotates the
// file once it is full or old enough
func (r *FileRotator) WriteBattle(b *battle.Battle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal battle: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.currentWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write battle: %w", err)
	}
	if err := r.currentWriter.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	r.battleCount++

	if err := r.currentWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	if r.shouldRotate() {
		return r.rotate()
	}
	return nil
}

// Rotate forces the current file into warm storage if it holds any battles
func (r *FileRotator) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.battleCount == 0 {
		return nil
	}
	return r.rotate()
}

func (r *FileRotator) shouldRotate() bool {
	if r.currentFile == nil {
		return true
	}
	if r.battleCount >= r.maxBattles {
		return true
	}
	return time.Since(r.fileOpenedAt) >= r.maxAge
}

// rotate closes the current file, moves it to warm and opens a new one
func (r *FileRotator) rotate() error {
	if r.currentFile != nil {
		if err := r.closeCurrent(); err != nil {
			return err
		}
	}

	r.seq++
	filename := fmt.Sprintf("battles_%s_%04d.jsonl", time.Now().Format("2006-01-02_15-04-05"), r.seq)
	r.currentPath = filepath.Join(r.hotDir, filename)

	file, err := os.Create(r.currentPath)
	if err != nil {
		return fmt.Errorf("failed to create new file: %w", err)
	}

	r.currentFile = file
	r.currentWriter = bufio.NewWriterSize(file, 64*1024)
	r.battleCount = 0
	r.fileOpenedAt = time.Now()
	return nil
}

// closeCurrent flushes and closes the current file, moving it to warm when
// it holds battles and removing it otherwise
func (r *FileRotator) closeCurrent() error {
	if err := r.currentWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush before rotation: %w", err)
	}
	if err := r.currentFile.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	r.currentFile = nil

	if r.battleCount == 0 {
		os.Remove(r.currentPath)
		return nil
	}

	warmPath := filepath.Join(r.warmDir, filepath.Base(r.currentPath))
	if err := os.Rename(r.currentPath, warmPath); err != nil {
		return fmt.Errorf("failed to move to warm storage: %w", err)
	}
	fmt.Printf("[Rotator] Moved %s to warm storage (%d battles)\n", filepath.Base(r.currentPath), r.battleCount)
	return nil
}

// Close flushes the current file and moves it to warm if it has data
func (r *FileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentFile == nil {
		return nil
	}
	return r.closeCurrent()
}

// Stats returns the number of battles in the current file and its name
func (r *FileRotator) Stats() (battlesInCurrentFile int, currentFileName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.battleCount, filepath.Base(r.currentPath)
}

// WarmFiles lists the closed JSONL files under baseDir/warm, oldest name first
func WarmFiles(baseDir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(baseDir, "warm", "*.jsonl"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CompressToCold gzips a warm file into coldDir and removes the original
func CompressToCold(warmPath, coldDir string) (string, error) {
	if err := os.MkdirAll(coldDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cold directory: %w", err)
	}

	src, err := os.Open(warmPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	coldPath := filepath.Join(coldDir, filepath.Base(warmPath)+".gz")
	dst, err := os.Create(coldPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	if _, err := io.Copy(gzWriter, src); err != nil {
		os.Remove(coldPath) // Clean up on failure
		return "", err
	}
	if err := gzWriter.Close(); err != nil {
		os.Remove(coldPath)
		return "", err
	}

	src.Close() // Close before removing on Windows
	if err := os.Remove(warmPath); err != nil {
		return "", err
	}

	fmt.Printf("[Rotator] Compressed %s to cold storage\n", filepath.Base(warmPath))
	return coldPath, nil
}
