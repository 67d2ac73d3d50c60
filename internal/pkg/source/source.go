// Package source reads delimited, spreadsheet and JSON array files into
// header-keyed rows.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported source file type")

const bom = "\uFEFF"

// Row is one source record keyed by header name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the raw value of col, or "" when the column is absent.
func (r Row) Get(col string) string {
	return r.Fields[col]
}

// ReadFile opens path and decodes it according to its extension.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadReader(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return rows, nil
}

// ReadReader decodes r as the given extension (".csv", ".xlsx" or ".json").
func ReadReader(r io.Reader, ext string) ([]Row, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	case ".json":
		return readJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func readCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	// encoding/csv rejects a quoted field preceded by a BOM.
	if lead, err := br.Peek(len(bom)); err == nil && string(lead) == bom {
		if _, err := br.Discard(len(bom)); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromTable(records), nil
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return fromTable(records), nil
}

// fromTable treats the first record as the header. Lines are counted from the
// header, so the first data row is line 2.
func fromTable(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" {
				continue
			}
			if j < len(rec) {
				fields[col] = rec[j]
			} else {
				fields[col] = ""
			}
		}
		rows = append(rows, Row{Line: i + 2, Fields: fields})
	}
	return rows
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readJSON decodes an array of flat objects. Scalars are stringified so the
// same normalizers apply to every source type; null becomes "".
func readJSON(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte(bom))

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(objects))
	for i, obj := range objects {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			fields[strings.TrimPrefix(k, bom)] = stringify(v)
		}
		rows = append(rows, Row{Line: i + 1, Fields: fields})
	}
	return rows, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
