package sheets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookPersistsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	require.NoError(t, wb.EnsureSheet("재고조사"))
	require.NoError(t, wb.Append(ctx, MustParseRange("재고조사!A:B"), [][]string{{"항목", "재고"}, {"Widget", "3"}}))
	require.NoError(t, wb.BatchWrite(ctx, []Update{{Range: Cell("재고조사", 2, 2), Values: [][]string{{"42"}}}}))
	require.NoError(t, wb.Close())

	reopened, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.Read(ctx, MustParseRange("재고조사!A2:B"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Widget", "42"}}, rows)

	title, err := reopened.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "inventory", title)
}

func TestWorkbookClearAndMissingSheet(t *testing.T) {
	ctx := context.Background()
	wb, err := OpenWorkbook(filepath.Join(t.TempDir(), "book.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	require.NoError(t, wb.EnsureSheet("Log"))
	require.NoError(t, wb.Write(ctx, MustParseRange("Log!A1:B3"), [][]string{{"h1", "h2"}, {"a", "1"}, {"b", "2"}}))
	require.NoError(t, wb.Clear(ctx, MustParseRange("Log!A3:B3")))

	rows, err := wb.Read(ctx, MustParseRange("Log!A:B"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h1", "h2"}, {"a", "1"}}, rows)

	_, err = wb.Read(ctx, MustParseRange("Nope!A:B"))
	assert.ErrorIs(t, err, ErrSheetNotFound)
}
