package store

import (
	"context"

	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/types"
)

// CountRepository reads the working count sheet.
type CountRepository struct {
	client *sheets.Client
	sheet  string
}

func NewCountRepository(client *sheets.Client, sheet string) *CountRepository {
	return &CountRepository{client: client, sheet: sheet}
}

// List returns every count row below the header.
func (r *CountRepository) List(ctx context.Context) ([]types.CountEntry, error) {
	rows, err := r.client.Read(ctx, sheets.ColumnsFrom(r.sheet, 1, 2, countColumns))
	if err != nil {
		return nil, err
	}

	entries := make([]types.CountEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, types.CountEntry{
			Item:     cell(row, countColItem),
			Quantity: cell(row, countColQuantity),
		})
	}
	return entries, nil
}

// CountSheet is a loaded copy of the count sheet used for row lookups.
type CountSheet struct {
	rows [][]string
}

// Load reads the whole count sheet, header included.
func (r *CountRepository) Load(ctx context.Context) (CountSheet, error) {
	rows, err := r.client.Read(ctx, sheets.Columns(r.sheet, 1, countColumns))
	if err != nil {
		return CountSheet{}, err
	}
	return CountSheet{rows: rows}, nil
}

// Row returns the sheet row of the first entry named item.
func (s CountSheet) Row(item string) (int, bool) {
	idx := findRow(s.rows, countColItem, func(v string) bool { return v == item })
	if idx < 0 {
		return 0, false
	}
	return idx + 1, true
}

// QuantityUpdate stages a write of the quantity cell of a row.
func (r *CountRepository) QuantityUpdate(row int, quantity string) sheets.Update {
	return sheets.Update{
		Range:  sheets.Cell(r.sheet, countColQuantity+1, row),
		Values: [][]string{{quantity}},
	}
}
