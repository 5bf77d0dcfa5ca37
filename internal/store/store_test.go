package store

import (
	"testing"

	"github.com/harari-inventory/apiserver/internal/sheets"
)

func newTestClient(t *testing.T) (*sheets.Client, *sheets.Memory) {
	t.Helper()
	mem := sheets.NewMemory("test")
	mem.Seed("AUTH", [][]string{
		{"이름", "비밀번호", "토큰", "비밀번호변경완료", "최종로그인시간"},
		{"kim", "123456", "", "", ""},
		{"lee", "654321", "tok-lee", "Y", "2025-11-17T01:02:03.000Z"},
		{"kim", "999999"},
	})
	mem.Seed("재고", [][]string{
		{"구매 상황", "코드", "중요도", "이름", "재고", "소비량", "안전", "단위", "체크 요일", "구매처", "MOQ", "리드타임", "최근 구매일자"},
		{"", "W-1", "A", "Widget", "10", "2", "5", "ea", "월목", "ACME", "10", "3", "2025-10-01"},
		{"", "", "B", "NoCode", "1"},
		{"", "G-1", "B", "Gadget", "7"},
		{"", "G-2", "B", "Gadget", "8"},
	})
	mem.Seed("재고조사", [][]string{
		{"항목", "재고"},
		{"Widget", "10"},
		{"Bolt", "3"},
		{"Widget", "11"},
	})
	mem.Seed("재고로그", [][]string{
		{"일시", "코드", "이름", "재고"},
		{"2025-11-16", "W-1", "Widget", "9"},
	})
	return sheets.NewClient(mem, nil), mem
}
