package store

import (
	"context"
	"fmt"

	"github.com/harari-inventory/apiserver/internal/sheets"
)

var (
	authHeader      = []string{"이름", "비밀번호", "토큰", "비밀번호변경완료", "최종로그인시간"}
	inventoryHeader = []string{"구매 상황", "코드", "중요도", "이름", "재고", "소비량", "안전", "단위", "체크 요일", "구매처", "MOQ", "리드타임", "최근 구매일자"}
	countHeader     = []string{"항목", "재고"}
)

// Names lists the tab names in a fixed order.
func (s Sheets) Names() []string {
	return []string{s.Auth, s.Inventory, s.Count, s.Log}
}

// Bootstrap appends the header row to every sheet that has no rows yet and
// returns the names of the sheets it touched.
func Bootstrap(ctx context.Context, client *sheets.Client, names Sheets) ([]string, error) {
	headers := []struct {
		sheet  string
		header []string
	}{
		{names.Auth, authHeader},
		{names.Inventory, inventoryHeader},
		{names.Count, countHeader},
		{names.Log, LogHeader},
	}

	var seeded []string
	for _, h := range headers {
		rows, err := client.Read(ctx, sheets.Block(h.sheet, 1, 1, len(h.header), 1))
		if err != nil {
			return seeded, fmt.Errorf("read %s: %w", h.sheet, err)
		}
		if len(rows) > 0 {
			continue
		}
		if err := client.Append(ctx, sheets.Columns(h.sheet, 1, len(h.header)), [][]string{h.header}); err != nil {
			return seeded, fmt.Errorf("seed %s: %w", h.sheet, err)
		}
		seeded = append(seeded, h.sheet)
	}
	return seeded, nil
}
