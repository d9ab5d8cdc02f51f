// Package tabular reads and writes header-driven spreadsheets.
//
// The format is chosen by file extension: ".xlsx" files go through
// excelize, everything else is treated as CSV.
package tabular

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukerupert/nursery/internal/domain"
)

// Format identifies a spreadsheet file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Table is a header row plus data rows keyed by header.
// Every row carries a key for every header column.
type Table struct {
	Header []string
	Rows   []map[string]string
}

// FormatFor returns the format implied by a file name.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Read loads a spreadsheet file. A missing file is ENOTFOUND.
func Read(path string) (*Table, error) {
	const op = "tabular.read"

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound(op, "spreadsheet", path)
		}
		return nil, domain.Internal(err, op, "failed to stat spreadsheet")
	}

	switch FormatFor(path) {
	case FormatXLSX:
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to open spreadsheet")
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// Write stores a table, creating the parent directory if needed.
func Write(path string, t *Table) error {
	const op = "tabular.write"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.Internal(err, op, "failed to create output directory")
		}
	}

	switch FormatFor(path) {
	case FormatXLSX:
		return writeXLSX(path, t)
	default:
		f, err := os.Create(path)
		if err != nil {
			return domain.Internal(err, op, "failed to create spreadsheet")
		}
		if err := WriteCSV(f, t); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return domain.Internal(err, op, "failed to close spreadsheet")
		}
		return nil
	}
}

// Missing returns the given columns that are absent from the header.
func (t *Table) Missing(columns ...string) []string {
	have := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		have[h] = true
	}
	var missing []string
	for _, c := range columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Latest returns the lexicographically greatest file in dir whose name
// starts with prefix and ends with one of exts. Timestamped export names
// sort chronologically, so this is the most recent export.
func Latest(dir, prefix string, exts ...string) (string, error) {
	const op = "tabular.latest"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", domain.Internal(err, op, "failed to list directory")
	}

	var best string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !hasExt(name, exts) {
			continue
		}
		if name > best {
			best = name
		}
	}
	if best == "" {
		return "", domain.NotFound(op, "spreadsheet", filepath.Join(dir, prefix+"*"))
	}
	return filepath.Join(dir, best), nil
}

func hasExt(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.EqualFold(filepath.Ext(name), ext) {
			return true
		}
	}
	return false
}

// newTable builds a table from raw records whose first non-blank
// record is the header.
func newTable(records [][]string) *Table {
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return &Table{}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	t := &Table{Header: header, Rows: make([]map[string]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if _, dup := row[h]; dup {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
