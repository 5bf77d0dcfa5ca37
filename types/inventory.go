package types

// InventoryItem is one row of the inventory sheet, columns A through M.
// Quantities are kept as the strings found in the sheet.
type InventoryItem struct {
	PurchaseStatus   string `json:"구매상황"`
	Code             string `json:"코드"`
	Importance       string `json:"중요도"`
	Name             string `json:"이름"`
	Stock            string `json:"재고"`
	ConsumptionRate  string `json:"소비량"`
	SafetyStock      string `json:"안전"`
	Unit             string `json:"단위"`
	CheckDays        string `json:"체크요일"`
	Supplier         string `json:"구매처"`
	MinimumOrder     string `json:"MOQ"`
	LeadTime         string `json:"리드타임"`
	LastPurchaseDate string `json:"최근구매일자"`
}

// CountEntry is a counted quantity for an item, as listed on the count
// sheet and as submitted by clients.
type CountEntry struct {
	Item     string `json:"항목"`
	Quantity string `json:"재고"`
}

// LogEntry is one row of the count log. Date and Code form its key.
type LogEntry struct {
	Date     string `json:"일시"`
	Code     string `json:"코드"`
	Name     string `json:"이름"`
	Quantity string `json:"재고"`
}

// Row renders the entry in log sheet column order.
func (e LogEntry) Row() []string {
	return []string{e.Date, e.Code, e.Name, e.Quantity}
}
