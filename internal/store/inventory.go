package store

import (
	"context"

	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/types"
)

// InventoryRef locates an inventory item by the name it is cross-referenced with.
type InventoryRef struct {
	Code string
	Name string
	Row  int
}

// InventoryRepository reads the inventory sheet.
type InventoryRepository struct {
	client *sheets.Client
	sheet  string
}

func NewInventoryRepository(client *sheets.Client, sheet string) *InventoryRepository {
	return &InventoryRepository{client: client, sheet: sheet}
}

// List returns every item below the header row.
func (r *InventoryRepository) List(ctx context.Context) ([]types.InventoryItem, error) {
	rows, err := r.client.Read(ctx, sheets.ColumnsFrom(r.sheet, 1, 2, invColumns))
	if err != nil {
		return nil, err
	}

	items := make([]types.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

// Index maps item names to their code and sheet row. Rows lacking a name
// or a code are left out; when two rows share a name the later one wins.
func (r *InventoryRepository) Index(ctx context.Context) (map[string]InventoryRef, error) {
	rows, err := r.client.Read(ctx, sheets.Columns(r.sheet, 1, invColumns))
	if err != nil {
		return nil, err
	}

	index := make(map[string]InventoryRef, len(rows))
	for i := 1; i < len(rows); i++ {
		name := cell(rows[i], invColName)
		code := cell(rows[i], invColCode)
		if name == "" || code == "" {
			continue
		}
		index[name] = InventoryRef{Code: code, Name: name, Row: i + 1}
	}
	return index, nil
}

// StockUpdate stages a write of the stock cell of a row.
func (r *InventoryRepository) StockUpdate(row int, quantity string) sheets.Update {
	return sheets.Update{
		Range:  sheets.Cell(r.sheet, invColStock+1, row),
		Values: [][]string{{quantity}},
	}
}

func itemFromRow(row []string) types.InventoryItem {
	return types.InventoryItem{
		PurchaseStatus:   cell(row, invColPurchaseStatus),
		Code:             cell(row, invColCode),
		Importance:       cell(row, invColImportance),
		Name:             cell(row, invColName),
		Stock:            cell(row, invColStock),
		ConsumptionRate:  cell(row, invColConsumption),
		SafetyStock:      cell(row, invColSafety),
		Unit:             cell(row, invColUnit),
		CheckDays:        cell(row, invColCheckDays),
		Supplier:         cell(row, invColSupplier),
		MinimumOrder:     cell(row, invColMOQ),
		LeadTime:         cell(row, invColLeadTime),
		LastPurchaseDate: cell(row, invColLastPurchase),
	}
}
