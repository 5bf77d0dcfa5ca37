package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryList(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewInventoryRepository(client, "재고")

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "W-1", items[0].Code)
	assert.Equal(t, "Widget", items[0].Name)
	assert.Equal(t, "10", items[0].Stock)
	assert.Equal(t, "월목", items[0].CheckDays)
	assert.Equal(t, "2025-10-01", items[0].LastPurchaseDate)
	assert.Equal(t, "", items[1].Code)
}

func TestInventoryIndexSkipsIncompleteRowsAndKeepsLastName(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewInventoryRepository(client, "재고")

	index, err := repo.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, InventoryRef{Code: "W-1", Name: "Widget", Row: 2}, index["Widget"])
	assert.Equal(t, InventoryRef{Code: "G-2", Name: "Gadget", Row: 5}, index["Gadget"])
	_, ok := index["NoCode"]
	assert.False(t, ok)
	_, ok = index["이름"]
	assert.False(t, ok)

	assert.Equal(t, "재고!E5", repo.StockUpdate(5, "1").Range.String())
}

func TestCountSheetLookup(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewCountRepository(client, "재고조사")
	ctx := context.Background()

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "Bolt", entries[1].Item)

	sheet, err := repo.Load(ctx)
	require.NoError(t, err)

	row, ok := sheet.Row("Widget")
	require.True(t, ok)
	assert.Equal(t, 2, row, "first match wins")

	_, ok = sheet.Row("항목")
	assert.False(t, ok)
	_, ok = sheet.Row("Missing")
	assert.False(t, ok)

	assert.Equal(t, "재고조사!B3", repo.QuantityUpdate(3, "5").Range.String())
}
