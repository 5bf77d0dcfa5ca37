package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook stores the spreadsheet in a local .xlsx file. Every write is saved
// to disk before returning.
type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path, creating an empty one if missing.
func OpenWorkbook(path string) (*Workbook, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("xlsx path is required")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook: %w", err)
		}
		return &Workbook{path: path, file: f}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{path: path, file: f}, nil
}

// EnsureSheet adds the sheet when the workbook does not have it yet.
func (w *Workbook) EnsureSheet(sheet string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	if _, err := w.file.NewSheet(sheet); err != nil {
		return err
	}
	return w.file.Save()
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Workbook) Read(ctx context.Context, rng Range) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	all, err := w.rows(rng.Sheet)
	if err != nil {
		return nil, err
	}
	return sliceRows(all, rng), nil
}

func (w *Workbook) Write(ctx context.Context, rng Range, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.exists(rng.Sheet); err != nil {
		return err
	}
	if err := rng.fits(rows); err != nil {
		return err
	}
	if err := w.put(rng, rng.firstRow(), rows); err != nil {
		return err
	}
	return w.file.Save()
}

func (w *Workbook) Append(ctx context.Context, rng Range, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	all, err := w.rows(rng.Sheet)
	if err != nil {
		return err
	}
	if err := w.put(rng, lastPopulatedRow(all)+1, rows); err != nil {
		return err
	}
	return w.file.Save()
}

func (w *Workbook) BatchWrite(ctx context.Context, updates []Update) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, u := range updates {
		if err := w.exists(u.Range.Sheet); err != nil {
			return err
		}
		if err := u.Range.fits(u.Values); err != nil {
			return err
		}
	}
	for _, u := range updates {
		if err := w.put(u.Range, u.Range.firstRow(), u.Values); err != nil {
			return err
		}
	}
	return w.file.Save()
}

func (w *Workbook) Clear(ctx context.Context, rng Range) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	all, err := w.rows(rng.Sheet)
	if err != nil {
		return err
	}

	lastRow := len(all)
	if rng.EndRow > 0 && rng.EndRow < lastRow {
		lastRow = rng.EndRow
	}
	for r := rng.firstRow(); r <= lastRow; r++ {
		lastCol := len(all[r-1])
		if rng.EndCol > 0 && rng.EndCol < lastCol {
			lastCol = rng.EndCol
		}
		for c := rng.firstCol(); c <= lastCol; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := w.file.SetCellStr(rng.Sheet, cell, ""); err != nil {
				return err
			}
		}
	}
	return w.file.Save()
}

func (w *Workbook) Title(ctx context.Context) (string, error) {
	return strings.TrimSuffix(filepath.Base(w.path), filepath.Ext(w.path)), nil
}

func (w *Workbook) exists(sheet string) error {
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return nil
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	if err := w.exists(sheet); err != nil {
		return nil, err
	}
	return w.file.GetRows(sheet)
}

func (w *Workbook) put(rng Range, firstRow int, rows [][]string) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(rng.firstCol()+j, firstRow+i)
			if err != nil {
				return err
			}
			if err := w.file.SetCellStr(rng.Sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
