package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelRowStore keeps report rows in a local .xlsx workbook through
// excelize. Access is serialized with a mutex: excelize files are not
// safe for concurrent use, and append must read the current row count
// before writing.
type ExcelRowStore struct {
	mu   sync.Mutex
	path string
}

// NewExcelRowStore opens, or creates, the workbook at path. When
// creating, one sheet per entry in headers is added with its header row;
// headers may be nil for an existing workbook.
func NewExcelRowStore(path string, headers map[string][]string) (*ExcelRowStore, error) {
	s := &ExcelRowStore{path: path}

	if _, err := os.Stat(path); err == nil {
		return s, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat workbook %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create workbook directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for sheet, header := range headers {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if len(header) == 0 {
			continue
		}
		row := make([]interface{}, len(header))
		for i, h := range header {
			row[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
			return nil, fmt.Errorf("write header for %s: %w", sheet, err)
		}
	}
	if len(headers) > 0 {
		// Drop the workbook's default sheet.
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("create workbook %s: %w", path, err)
	}
	return s, nil
}

// AppendRows writes rows after the last populated row of sheet and saves
// the workbook. The whole append is one critical section, so a single
// call never interleaves with another.
func (s *ExcelRowStore) AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, len(existing)+i+1)
		if err != nil {
			return fmt.Errorf("address row in %s: %w", sheet, err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cellRef, &r); err != nil {
			return fmt.Errorf("append to sheet %s: %w", sheet, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

// GetRows returns the raw cell data of sheet, header row included.
func (s *ExcelRowStore) GetRows(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}
