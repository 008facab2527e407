package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	devenv "ulhiking-backend/dev/env"
	"ulhiking-backend/internal/tripreport"
)

// ReportsFile and ItemsFile are the names of the two files written for a
// prefix, ex. "2024-06-01-reports.jsonl".
func ReportsFile(prefix string) string {
	return prefix + "-reports.jsonl"
}

func ItemsFile(prefix string) string {
	return prefix + "-lp_contents.jsonl"
}

// JSONLWriter writes reports and item rows to a directory, one JSON object per line.
type JSONLWriter struct {
	dir string
}

// NewJSONLWriter creates `dir` if needed, it may start with <dev_state>.
func NewJSONLWriter(dir string) (JSONLWriter, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return JSONLWriter{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return JSONLWriter{}, err
	}
	return JSONLWriter{dir: dir}, nil
}

// Write replaces the report and item files for prefix, it returns the paths
// that were written.
func (w JSONLWriter) Write(prefix string, reports []tripreport.Report, rows []tripreport.ItemRow) ([]string, error) {
	reportsPath := filepath.Join(w.dir, ReportsFile(prefix))
	err := writeLines(reportsPath, reports)
	if err != nil {
		return nil, err
	}
	itemsPath := filepath.Join(w.dir, ItemsFile(prefix))
	err = writeLines(itemsPath, rows)
	if err != nil {
		return nil, err
	}
	return []string{reportsPath, itemsPath}, nil
}

func writeLines[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buffered := bufio.NewWriter(f)
	encoder := json.NewEncoder(buffered)
	encoder.SetEscapeHTML(false)
	for i, r := range records {
		err = encoder.Encode(r)
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", path, i, err)
		}
	}
	err = buffered.Flush()
	if err != nil {
		return err
	}
	return f.Close()
}

// ReadLines reads back a file written by JSONLWriter.
func ReadLines[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []T
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record T
		err = decoder.Decode(&record)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, len(out), err)
		}
		out = append(out, record)
	}
	return out, nil
}
