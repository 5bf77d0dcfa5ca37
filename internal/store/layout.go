package store

import "github.com/harari-inventory/apiserver/config"

// Column offsets are positional contracts with the spreadsheet; headers are
// never consulted. Offsets are 0-based, sheet columns 1-based.
const (
	authColName = iota
	authColPassword
	authColToken
	authColPasswordChanged
	authColLastLogin
	authColumns
)

const (
	invColPurchaseStatus = iota
	invColCode
	invColImportance
	invColName
	invColStock
	invColConsumption
	invColSafety
	invColUnit
	invColCheckDays
	invColSupplier
	invColMOQ
	invColLeadTime
	invColLastPurchase
	invColumns
)

const (
	countColItem = iota
	countColQuantity
	countColumns
)

const (
	logColDate = iota
	logColCode
	logColName
	logColQuantity
	logColumns
)

// LogHeader is written as the first row whenever the log sheet is rewritten.
var LogHeader = []string{"일시", "코드", "이름", "재고"}

// Sheets names the tabs the repositories operate on.
type Sheets struct {
	Auth      string
	Inventory string
	Count     string
	Log       string
}

// SheetsFromConfig maps configuration onto Sheets.
func SheetsFromConfig(cfg config.SheetNames) Sheets {
	return Sheets{
		Auth:      cfg.Auth,
		Inventory: cfg.Inventory,
		Count:     cfg.Count,
		Log:       cfg.Log,
	}
}

// DefaultSheets are the tab names of the production spreadsheet.
func DefaultSheets() Sheets {
	return Sheets{
		Auth:      "AUTH",
		Inventory: "재고",
		Count:     "재고조사",
		Log:       "재고로그",
	}
}

// cell returns the value at a 0-based column, or "" for short rows.
func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// findRow returns the index of the first non-header row whose column matches,
// or -1. Index 0 is always the header.
func findRow(rows [][]string, col int, match func(string) bool) int {
	for i := 1; i < len(rows); i++ {
		if match(cell(rows[i], col)) {
			return i
		}
	}
	return -1
}
