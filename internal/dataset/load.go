package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Table is a raw tabular source: a header and string cells, before any
// type inference or cleaning.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// LoadOptions controls how a source file is read.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, sniffed from the extension and header line.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index used when SheetName is empty.
	SheetIndex int
	Logger     *slog.Logger
}

// Load reads a CSV/TSV or XLSX file into a Table. Any failure to open or
// parse the file is reported as a *DataLoadError.
func Load(path string, opt LoadOptions) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		t, err := readXLSX(path, opt.SheetName, opt.SheetIndex)
		if err != nil {
			return nil, &DataLoadError{Source: path, Err: err}
		}
		logger(opt).Debug("loaded xlsx", "path", path, "columns", len(t.Header), "rows", len(t.Rows))
		return t, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()
	return Read(f, filepath.Base(path), opt)
}

// Read parses delimited text from r. name is used for delimiter sniffing
// (".tsv") and reported as the table name.
func Read(r io.Reader, name string, opt LoadOptions) (*Table, error) {
	br := bufio.NewReader(r)
	delim := opt.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		delim = sniffDelimiter(name, head)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.Comma = delim
	// Trimming would swallow empty fields between tabs.
	cr.TrimLeadingSpace = delim != '\t'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataLoadError{Source: name, Err: errors.New("no header row")}
		}
		return nil, &DataLoadError{Source: name, Err: fmt.Errorf("read header: %w", err)}
	}
	t := &Table{Name: name}
	if t.Header, err = normalizeHeader(header); err != nil {
		return nil, &DataLoadError{Source: name, Err: err}
	}
	ncol := len(t.Header)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DataLoadError{Source: name, Err: fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" && ncol > 1 {
			continue
		}
		if len(rec) > ncol {
			return nil, &DataLoadError{Source: name, Err: fmt.Errorf("row %d has %d fields, header has %d", len(t.Rows)+1, len(rec), ncol)}
		}
		row := make([]string, ncol)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	logger(opt).Debug("loaded delimited text", "name", name, "delimiter", string(delim), "columns", ncol, "rows", len(t.Rows))
	return t, nil
}

func normalizeHeader(header []string) ([]string, error) {
	out := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("duplicate header column %q", h)
		}
		seen[h] = struct{}{}
		out[i] = h
	}
	return out, nil
}

func sniffDelimiter(name string, head []byte) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestN := ',', bytes.Count(head, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(head, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

func logger(opt LoadOptions) *slog.Logger {
	if opt.Logger != nil {
		return opt.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
