package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Table is a raw header plus rows as read from an uploaded file.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

var supportedExtensions = map[string]bool{
	"":      true,
	".csv":  true,
	".txt":  true,
	".xlsx": true,
}

// Validate checks that filename has an extension the reader understands.
func Validate(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: unsupported file extension %s for %s", domain.ErrUnreadableInput, ext, filename)
	}
	return nil
}

// ReadTable reads a delimited text file, or the first sheet of an XLSX
// workbook, into a Table. Any structural read failure wraps domain.ErrUnreadableInput.
func ReadTable(filename string, r io.Reader) (*Table, error) {
	if err := Validate(filename); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readXLSX(filename, r)
	}
	return readCSV(filename, r)
}

func readCSV(filename string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header row", domain.ErrUnreadableInput, filename)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableInput, filename, err)
	}

	table := &Table{Source: filename, Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableInput, filename, err)
		}
		table.Rows = append(table.Rows, record)
	}

	if err := checkHeader(table); err != nil {
		return nil, err
	}
	return table, nil
}

func readXLSX(filename string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open xlsx %s: %v", domain.ErrUnreadableInput, filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx file %s has no sheets", domain.ErrUnreadableInput, filename)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows from sheet %s: %v", domain.ErrUnreadableInput, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrUnreadableInput, filename)
	}

	table := &Table{Source: filename, Header: rows[0], Rows: rows[1:]}
	if err := checkHeader(table); err != nil {
		return nil, err
	}
	return table, nil
}

func checkHeader(t *Table) error {
	for _, h := range t.Header {
		if strings.TrimSpace(h) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: %s has an empty header row", domain.ErrUnreadableInput, t.Source)
}
