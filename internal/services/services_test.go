package services

import (
	"testing"
	"time"

	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/store"
)

var fixedNow = time.Date(2025, 11, 17, 14, 19, 11, 0, time.UTC)

type fixture struct {
	mem       *sheets.Memory
	client    *sheets.Client
	auth      *store.AuthRepository
	inventory *store.InventoryRepository
	counts    *store.CountRepository
	logs      *store.LogRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := sheets.NewMemory("test")
	mem.Seed("AUTH", [][]string{
		{"이름", "비밀번호", "토큰", "비밀번호변경완료", "최종로그인시간"},
		{"kim", "123456", "", "N", ""},
		{"lee", "654321", "tok-lee", "Y", "2025-11-16T01:02:03.000Z"},
	})
	mem.Seed("재고", [][]string{
		{"구매 상황", "코드", "중요도", "이름", "재고"},
		{"", "W-1", "A", "Widget", "10"},
		{"", "G-1", "B", "Gadget", "7"},
		{"", "", "B", "NoCode", "1"},
	})
	mem.Seed("재고조사", [][]string{
		{"항목", "재고"},
		{"Widget", "10"},
		{"Gadget", "7"},
		{"Bolt", "3"},
	})
	mem.Seed("재고로그", [][]string{
		{"일시", "코드", "이름", "재고"},
		{"2025-11-17T01:00:00.000Z", "G-1", "Gadget", "6"},
		{"2025-11-16", "W-1", "Widget", "9"},
	})

	client := sheets.NewClient(mem, nil)
	return &fixture{
		mem:       mem,
		client:    client,
		auth:      store.NewAuthRepository(client, "AUTH"),
		inventory: store.NewInventoryRepository(client, "재고"),
		counts:    store.NewCountRepository(client, "재고조사"),
		logs:      store.NewLogRepository(client, "재고로그"),
	}
}

func (f *fixture) countService(opts ...CountOption) *CountService {
	opts = append([]CountOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewCountService(f.inventory, f.counts, f.logs, f.client, opts...)
}
