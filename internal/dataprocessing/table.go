package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
)

// Table is an in-memory tabular input: one header row plus data rows.
// It is the storage-independent form both loaders consume, so the same
// schema checks apply whether the registrar export arrived as CSV or xlsx.
type Table struct {
	Headers []string
	Rows    [][]string

	columns map[string]int
}

// NewTable builds a Table and indexes its header row.
func NewTable(headers []string, rows [][]string) *Table {
	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[strings.TrimSpace(h)] = i
	}
	return &Table{Headers: headers, Rows: rows, columns: columns}
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.columns[name]
	return i, ok
}

// RequireColumns verifies every named column exists, returning a
// SchemaError listing all missing columns at once.
func (t *Table) RequireColumns(table string, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewSchemaError(
			fmt.Sprintf("table %q is missing required columns: %s", table, strings.Join(missing, ", ")), nil)
	}
	return nil
}

// Cell returns the trimmed value of the named column in the given row.
// Short rows read as empty cells.
func (t *Table) Cell(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadTable reads a tabular file into memory. The format is chosen by
// extension: .csv (the common case) or .xlsx (the registrar also ships
// Excel workbooks; the first sheet is used, first row as header).
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open input file %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows surface as schema problems later, not reader faults
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParseError(fmt.Sprintf("failed to read CSV %s", path), err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("input file %s has no header row", path), nil)
	}

	return NewTable(records[0], records[1:]), nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParseError(fmt.Sprintf("failed to read sheet %q of %s", sheets[0], path), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("workbook %s has no header row", path), nil)
	}

	return NewTable(rows[0], rows[1:]), nil
}
