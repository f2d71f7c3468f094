package battle

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Max size of a single JSONL line. Timelines are fixed length, so 1MB is plenty.
const maxLineSize = 1024 * 1024

// LineError records a line that could not be decoded
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

// ReadResult holds the battles decoded from one or more JSONL sources
type ReadResult struct {
	Battles    []Battle
	Errors     []LineError
	Lines      int
	Duplicates int
}

func (r *ReadResult) merge(other *ReadResult) {
	r.Battles = append(r.Battles, other.Battles...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Lines += other.Lines
	r.Duplicates += other.Duplicates
}

// Decode reads one battle per line from r. Lines that fail to parse are
// reported in the result and skipped. dedupe may be nil.
func Decode(r io.Reader, name string, dedupe *Deduper) (*ReadResult, error) {
	res := &ReadResult{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		res.Lines++

		var b Battle
		if err := json.Unmarshal(line, &b); err != nil {
			res.Errors = append(res.Errors, LineError{Path: name, Line: lineNum, Err: err})
			continue
		}

		if dedupe != nil && dedupe.Seen(b.BattleID) {
			res.Duplicates++
			continue
		}
		res.Battles = append(res.Battles, b)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", name, err)
	}
	return res, nil
}

// ReadFile decodes a .jsonl file, or a gzipped .jsonl.gz archive
func ReadFile(path string, dedupe *Deduper) (*ReadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip %s: %w", path, err)
		}
		defer gz.Close()
		src = gz
	}

	return Decode(src, filepath.Base(path), dedupe)
}

// ReadFiles decodes every file in order and merges the results
func ReadFiles(paths []string, dedupe *Deduper) (*ReadResult, error) {
	total := &ReadResult{}
	for _, path := range paths {
		res, err := ReadFile(path, dedupe)
		if err != nil {
			return nil, err
		}
		for _, le := range res.Errors {
			log.Printf("[Reader] Warning: failed to parse %s", le)
		}
		total.merge(res)
	}
	return total, nil
}

// FindInputs returns the JSONL files under dir (plain and gzipped), sorted by
// name so reads are deterministic. A file path is returned as-is.
func FindInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for _, pattern := range []string{"*.jsonl", "*.jsonl.gz"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
