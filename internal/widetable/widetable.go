package widetable

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lostark-market/internal/gametime"
)

// TimeLayout is the column-label format for collection runs.
const TimeLayout = gametime.Layout

const (
	colItemName    = "item_name"
	colSubCategory = "sub_category"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Record is one observation to merge into a table.
type Record struct {
	ItemName    string
	SubCategory string
	Price       float64
}

// Row is one item row. Cells maps a time-column label to the price observed
// at that run; a missing key means the item was not seen at that run.
type Row struct {
	ItemName    string
	SubCategory string
	Cells       map[string]float64
}

func (r *Row) key() string {
	return r.ItemName + "\x1f" + r.SubCategory
}

// Table is a wide (time-as-columns) price table for one item category.
// Rows are keyed by item name, plus sub-category when the table tracks one.
// Time columns are append-only.
type Table struct {
	HasSubCategory bool
	TimeColumns    []string
	Rows           []*Row
}

// New returns an empty table.
func New(withSubCategory bool) *Table {
	return &Table{HasSubCategory: withSubCategory}
}

// HasColumn reports whether the given time label is already a column.
func (t *Table) HasColumn(label string) bool {
	for _, c := range t.TimeColumns {
		if c == label {
			return true
		}
	}
	return false
}

// Find returns the row for the given key, if any.
func (t *Table) Find(itemName, subCategory string) (*Row, bool) {
	for _, r := range t.Rows {
		if r.ItemName == itemName && r.SubCategory == subCategory {
			return r, true
		}
	}
	return nil, false
}

// Merge appends the batch as a new time column, outer-joining on the row
// key: items present before but absent from the batch keep their row with
// the new column empty, items new to this batch are appended as new rows
// with all prior columns empty. The batch is deduplicated by key, first
// record wins. Merging under a label that is already a column is an error;
// callers guarantee label uniqueness per run.
func (t *Table) Merge(batch []Record, label string) error {
	if label == "" {
		return fmt.Errorf("merge: empty column label")
	}
	if t.HasColumn(label) {
		return fmt.Errorf("merge: duplicate column label %q", label)
	}

	t.TimeColumns = append(t.TimeColumns, label)

	seen := make(map[string]bool, len(batch))
	for _, rec := range batch {
		sub := rec.SubCategory
		if !t.HasSubCategory {
			sub = ""
		}
		k := rec.ItemName + "\x1f" + sub
		if seen[k] {
			continue
		}
		seen[k] = true

		row, ok := t.Find(rec.ItemName, sub)
		if !ok {
			row = &Row{ItemName: rec.ItemName, SubCategory: sub, Cells: make(map[string]float64)}
			t.Rows = append(t.Rows, row)
		}
		row.Cells[label] = rec.Price
	}
	return nil
}

// Load reads a table from a CSV file written by Save.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) >= len(utf8BOM) && string(data[:len(utf8BOM)]) == string(utf8BOM) {
		data = data[len(utf8BOM):]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("parse %s: missing header", path)
	}

	header := records[0]
	if header[0] != colItemName {
		return nil, fmt.Errorf("parse %s: first column must be %s, got %q", path, colItemName, header[0])
	}
	t := &Table{}
	dataStart := 1
	if len(header) > 1 && header[1] == colSubCategory {
		t.HasSubCategory = true
		dataStart = 2
	}
	t.TimeColumns = append(t.TimeColumns, header[dataStart:]...)

	for line, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("parse %s: row %d has %d fields, want %d", path, line+2, len(rec), len(header))
		}
		row := &Row{ItemName: rec[0], Cells: make(map[string]float64)}
		if t.HasSubCategory {
			row.SubCategory = rec[1]
		}
		for i, label := range t.TimeColumns {
			cell := strings.TrimSpace(rec[dataStart+i])
			if cell == "" {
				continue
			}
			price, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s: row %d column %q: %w", path, line+2, label, err)
			}
			row.Cells[label] = price
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Save writes the table as UTF-8 CSV with a byte-order marker, via a
// temporary file renamed into place so a failed write never truncates the
// previous table.
func (t *Table) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(utf8BOM); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}

	writer := csv.NewWriter(tmp)
	header := []string{colItemName}
	if t.HasSubCategory {
		header = append(header, colSubCategory)
	}
	header = append(header, t.TimeColumns...)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}

	for _, row := range t.Rows {
		rec := []string{row.ItemName}
		if t.HasSubCategory {
			rec = append(rec, row.SubCategory)
		}
		for _, label := range t.TimeColumns {
			if price, ok := row.Cells[label]; ok {
				rec = append(rec, strconv.FormatFloat(price, 'f', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := writer.Write(rec); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", tmpPath, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// UpdateFile merges a batch into the table stored at path, creating the file
// if it does not exist. A malformed existing file is reported as an error
// and left untouched.
func UpdateFile(path string, batch []Record, label string, withSubCategory bool) error {
	var t *Table
	if _, err := os.Stat(path); err == nil {
		t, err = Load(path)
		if err != nil {
			return err
		}
	} else if os.IsNotExist(err) {
		t = New(withSubCategory)
	} else {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := t.Merge(batch, label); err != nil {
		return err
	}
	return t.Save(path)
}
