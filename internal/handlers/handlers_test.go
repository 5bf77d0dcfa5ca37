package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harari-inventory/apiserver/internal/ratelimit"
	"github.com/harari-inventory/apiserver/internal/services"
	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	mem    *sheets.Memory
	router chi.Router
}

type envOptions struct {
	requireAuth bool
	loginLimit  int
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	mem := sheets.NewMemory("재고관리")
	mem.Seed("AUTH", [][]string{
		{"이름", "비밀번호", "토큰", "비밀번호변경완료", "최종로그인시간"},
		{"kim", "123456", "", "N", ""},
		{"lee", "654321", "tok-lee", "Y", "2025-11-16T01:02:03.000Z"},
	})
	mem.Seed("재고", [][]string{
		{"구매 상황", "코드", "중요도", "이름", "재고", "소비량", "안전", "단위", "체크 요일", "구매처", "MOQ", "리드타임", "최근 구매일자"},
		{"발주", "W-1", "A", "Widget", "10", "2", "5", "ea", "월목", "ACME", "10", "3", "2025-10-01"},
		{"", "G-1", "B", "Gadget", "7"},
	})
	mem.Seed("재고조사", [][]string{
		{"항목", "재고"},
		{"Widget", "10"},
		{"Gadget", "7"},
	})
	mem.Seed("재고로그", [][]string{
		{"일시", "코드", "이름", "재고"},
		{"2025-11-16", "W-1", "Widget", "9"},
	})

	client := sheets.NewClient(mem, nil)
	authRepo := store.NewAuthRepository(client, "AUTH")
	inventoryRepo := store.NewInventoryRepository(client, "재고")
	countRepo := store.NewCountRepository(client, "재고조사")
	logRepo := store.NewLogRepository(client, "재고로그")

	authService := services.NewAuthService(authRepo)
	countService := services.NewCountService(inventoryRepo, countRepo, logRepo, client,
		services.WithClock(func() time.Time { return time.Date(2025, 11, 17, 9, 0, 0, 0, time.UTC) }))

	var limiter *ratelimit.Limiter
	if opts.loginLimit > 0 {
		limiter = ratelimit.New(ratelimit.Policy{Name: "login", Window: time.Minute, Limit: opts.loginLimit}, ratelimit.NewMemory())
	}

	router := chi.NewRouter()
	router.Use(LoadUser(authService, nil))
	router.Get("/healthz", Healthz)
	router.Get("/test-connection", TestConnection(client, nil))
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, NewAuthHandler(authService, limiter, nil, nil))
	})
	var guard func(http.Handler) http.Handler
	if opts.requireAuth {
		guard = RequireUser
	}
	inventoryHandler := NewInventoryHandler(
		services.NewInventoryService(inventoryRepo, countRepo),
		countService,
		services.NewSnapshotService(inventoryRepo, countRepo, logRepo),
		nil,
	)
	router.Group(func(r chi.Router) {
		InventoryRouter(r, inventoryHandler, guard)
	})

	return &testEnv{mem: mem, router: router}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
