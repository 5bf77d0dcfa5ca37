// Package export renders inventory snapshots as xlsx workbooks.
package export

import (
	"bytes"
	"io"

	"github.com/harari-inventory/apiserver/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names inside an exported workbook.
const (
	SheetInventory = "재고"
	SheetCount     = "재고조사"
	SheetLog       = "재고로그"
)

var (
	inventoryHeader = []string{"구매 상황", "코드", "중요도", "이름", "재고", "소비량", "안전", "단위", "체크 요일", "구매처", "MOQ", "리드타임", "최근 구매일자"}
	countHeader     = []string{"항목", "재고"}
	logHeader       = []string{"일시", "코드", "이름", "재고"}
)

// Snapshot is the content of one export.
type Snapshot struct {
	Items  []types.InventoryItem
	Counts []types.CountEntry
	Log    []types.LogEntry
}

// Write renders the snapshot as an xlsx workbook into w.
func Write(w io.Writer, snap Snapshot) error {
	f, err := build(snap)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Bytes renders the snapshot and returns the workbook content.
func Bytes(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func build(snap Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()

	items := make([][]string, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, itemRow(item))
	}
	counts := make([][]string, 0, len(snap.Counts))
	for _, entry := range snap.Counts {
		counts = append(counts, []string{entry.Item, entry.Quantity})
	}
	logs := make([][]string, 0, len(snap.Log))
	for _, entry := range snap.Log {
		logs = append(logs, entry.Row())
	}

	if err := f.SetSheetName("Sheet1", SheetInventory); err != nil {
		f.Close()
		return nil, err
	}
	if err := fillSheet(f, SheetInventory, inventoryHeader, items); err != nil {
		f.Close()
		return nil, err
	}
	for _, s := range []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{SheetCount, countHeader, counts},
		{SheetLog, logHeader, logs},
	} {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := fillSheet(f, s.name, s.header, s.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func fillSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// setRow writes cells as strings so quantities keep their sheet text.
func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func itemRow(item types.InventoryItem) []string {
	return []string{
		item.PurchaseStatus,
		item.Code,
		item.Importance,
		item.Name,
		item.Stock,
		item.ConsumptionRate,
		item.SafetyStock,
		item.Unit,
		item.CheckDays,
		item.Supplier,
		item.MinimumOrder,
		item.LeadTime,
		item.LastPurchaseDate,
	}
}
