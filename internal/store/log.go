package store

import (
	"context"

	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/types"
)

// LogRepository reads and rewrites the count log sheet.
type LogRepository struct {
	client *sheets.Client
	sheet  string
}

func NewLogRepository(client *sheets.Client, sheet string) *LogRepository {
	return &LogRepository{client: client, sheet: sheet}
}

// List returns the log entries below the header, in sheet order.
func (r *LogRepository) List(ctx context.Context) ([]types.LogEntry, error) {
	rows, err := r.client.Read(ctx, sheets.Columns(r.sheet, 1, logColumns))
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]types.LogEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, types.LogEntry{
			Date:     cell(row, logColDate),
			Code:     cell(row, logColCode),
			Name:     cell(row, logColName),
			Quantity: cell(row, logColQuantity),
		})
	}
	return entries, nil
}

// Replace rewrites the whole log with a header followed by entries. The
// write covers exactly the new row count; rows left over from a longer
// previous table (previous entries) are cleared afterwards.
func (r *LogRepository) Replace(ctx context.Context, entries []types.LogEntry, previous int) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, LogHeader)
	for _, entry := range entries {
		rows = append(rows, entry.Row())
	}

	if err := r.client.Write(ctx, sheets.Block(r.sheet, 1, 1, logColumns, len(rows)), rows); err != nil {
		return err
	}

	if previous > len(entries) {
		stale := sheets.Block(r.sheet, 1, len(entries)+2, logColumns, previous+1)
		if err := r.client.Clear(ctx, stale); err != nil {
			return err
		}
	}
	return nil
}
