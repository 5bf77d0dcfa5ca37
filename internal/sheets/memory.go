package sheets

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process spreadsheet. It backs tests and the memory store
// backend, and can simulate write failures per sheet.
type Memory struct {
	mu       sync.Mutex
	title    string
	sheets   map[string][][]string
	failures map[string]error
}

// NewMemory constructs an empty Memory spreadsheet.
func NewMemory(title string) *Memory {
	return &Memory{
		title:    title,
		sheets:   make(map[string][][]string),
		failures: make(map[string]error),
	}
}

// Seed replaces the content of a sheet, creating it if needed.
func (m *Memory) Seed(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = copyRows(rows)
}

// Rows returns a copy of a sheet's content.
func (m *Memory) Rows(sheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.sheets[sheet])
}

// FailWrites makes every write touching the sheet return err. A nil err lifts it.
func (m *Memory) FailWrites(sheet string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, sheet)
		return
	}
	m.failures[sheet] = err
}

// Protect makes the sheet reject writes like a protected range would.
func (m *Memory) Protect(sheet string) {
	m.FailWrites(sheet, fmt.Errorf("you are trying to edit a %w on %s", ErrProtected, sheet))
}

func (m *Memory) Read(ctx context.Context, rng Range) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, ok := m.sheets[rng.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, rng.Sheet)
	}
	return copyRows(sliceRows(all, rng)), nil
}

func (m *Memory) Write(ctx context.Context, rng Range, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writable(rng); err != nil {
		return err
	}
	if err := rng.fits(rows); err != nil {
		return err
	}
	m.put(rng, rng.firstRow(), rows)
	return nil
}

func (m *Memory) Append(ctx context.Context, rng Range, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writable(rng); err != nil {
		return err
	}
	m.put(rng, lastPopulatedRow(m.sheets[rng.Sheet])+1, rows)
	return nil
}

func (m *Memory) BatchWrite(ctx context.Context, updates []Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range updates {
		if err := m.writable(u.Range); err != nil {
			return err
		}
		if err := u.Range.fits(u.Values); err != nil {
			return err
		}
	}
	for _, u := range updates {
		m.put(u.Range, u.Range.firstRow(), u.Values)
	}
	return nil
}

func (m *Memory) Clear(ctx context.Context, rng Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writable(rng); err != nil {
		return err
	}
	clearCells(m.sheets[rng.Sheet], rng)
	return nil
}

func (m *Memory) Title(ctx context.Context) (string, error) {
	return m.title, nil
}

func (m *Memory) writable(rng Range) error {
	if _, ok := m.sheets[rng.Sheet]; !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, rng.Sheet)
	}
	if err := m.failures[rng.Sheet]; err != nil {
		return err
	}
	return nil
}

func (m *Memory) put(rng Range, firstRow int, rows [][]string) {
	all := m.sheets[rng.Sheet]
	for i, row := range rows {
		for j, value := range row {
			all = setCell(all, rng.firstCol()+j, firstRow+i, value)
		}
	}
	m.sheets[rng.Sheet] = all
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
