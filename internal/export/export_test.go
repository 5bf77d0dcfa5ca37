package export

import (
	"bytes"
	"testing"

	"github.com/harari-inventory/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBytesRendersAllSheets(t *testing.T) {
	data, err := Bytes(Snapshot{
		Items:  []types.InventoryItem{{Code: "W-1", Name: "Widget", Stock: "042", Unit: "ea"}},
		Counts: []types.CountEntry{{Item: "Widget", Quantity: "42"}},
		Log:    []types.LogEntry{{Date: "2025-11-17", Code: "W-1", Name: "Widget", Quantity: "42"}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetInventory, SheetCount, SheetLog}, f.GetSheetList())

	rows, err := f.GetRows(SheetInventory)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "코드", rows[0][1])
	assert.Equal(t, []string{"", "W-1", "", "Widget", "042", "", "", "ea"}, rows[1])

	rows, err = f.GetRows(SheetCount)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"항목", "재고"}, {"Widget", "42"}}, rows)

	rows, err = f.GetRows(SheetLog)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"일시", "코드", "이름", "재고"}, {"2025-11-17", "W-1", "Widget", "42"}}, rows)
}

func TestBytesEmptySnapshot(t *testing.T) {
	data, err := Bytes(Snapshot{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetLog)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"일시", "코드", "이름", "재고"}}, rows)
}
