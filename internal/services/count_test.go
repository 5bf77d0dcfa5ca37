package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/harari-inventory/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []types.CountEvent
	err    error
}

func (p *recordingPublisher) PublishCount(ctx context.Context, event types.CountEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func TestSubmitUpdatesAllThreeSheets(t *testing.T) {
	f := newFixture(t)
	svc := f.countService()

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Widget", Quantity: "42"}},
	})
	require.NoError(t, err)

	assert.True(t, result.LogWritten)
	assert.Empty(t, result.Warning)
	assert.Equal(t, 2, result.CellsWritten)
	assert.Equal(t, "42", f.mem.Rows("재고조사")[1][1])
	assert.Equal(t, "42", f.mem.Rows("재고")[1][4])

	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.LogEntry{
		{Date: "2025-11-17", Code: "W-1", Name: "Widget", Quantity: "42"},
		{Date: "2025-11-17", Code: "G-1", Name: "Gadget", Quantity: "6"},
		{Date: "2025-11-16", Code: "W-1", Name: "Widget", Quantity: "9"},
	}, entries)
}

func TestSubmitReplacesTodaysLogRow(t *testing.T) {
	f := newFixture(t)
	svc := f.countService()

	_, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Gadget", Quantity: "3"}},
	})
	require.NoError(t, err)

	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.LogEntry{
		{Date: "2025-11-17", Code: "G-1", Name: "Gadget", Quantity: "3"},
		{Date: "2025-11-16", Code: "W-1", Name: "Widget", Quantity: "9"},
	}, entries)
}

func TestSubmitSkipsUnknownItems(t *testing.T) {
	f := newFixture(t)
	svc := f.countService()

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{
			{Item: "Bolt", Quantity: "4"},
			{Item: "NoCode", Quantity: "2"},
			{Item: "Ghost", Quantity: "1"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CellsWritten)
	assert.Empty(t, result.Logged)
	assert.False(t, result.LogWritten)
	assert.Equal(t, "4", f.mem.Rows("재고조사")[3][1])
	assert.Equal(t, "1", f.mem.Rows("재고")[3][4])
	assert.Len(t, f.mem.Rows("재고로그"), 3)
}

func TestSubmitDuplicateItemsLastWins(t *testing.T) {
	f := newFixture(t)
	svc := f.countService()

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{
			{Item: "Widget", Quantity: "1"},
			{Item: "Widget", Quantity: "2"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, result.Logged, 2)

	assert.Equal(t, "2", f.mem.Rows("재고조사")[1][1])
	assert.Equal(t, "2", f.mem.Rows("재고")[1][4])

	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	assert.Contains(t, entries, types.LogEntry{Date: "2025-11-17", Code: "W-1", Name: "Widget", Quantity: "2"})
	assert.Len(t, entries, 3)
}

func TestSubmitProtectedLogStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.mem.Protect("재고로그")
	svc := f.countService()

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Widget", Quantity: "42"}},
	})
	require.NoError(t, err)

	assert.False(t, result.LogWritten)
	assert.Equal(t, ProtectedLogWarning, result.Warning)
	assert.Equal(t, "42", f.mem.Rows("재고조사")[1][1])
	assert.Equal(t, "42", f.mem.Rows("재고")[1][4])
}

func TestSubmitLogFailureReportsMessage(t *testing.T) {
	f := newFixture(t)
	f.mem.FailWrites("재고로그", errors.New("quota exceeded"))
	svc := f.countService()

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Widget", Quantity: "42"}},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "quota exceeded")
}

func TestSubmitBatchFailureIsAnError(t *testing.T) {
	f := newFixture(t)
	f.mem.FailWrites("재고", errors.New("backend down"))
	svc := f.countService()

	_, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Widget", Quantity: "42"}},
	})
	require.Error(t, err)
	assert.Equal(t, "10", f.mem.Rows("재고조사")[1][1])
	assert.Len(t, f.mem.Rows("재고로그"), 3)
}

func TestSubmitMissingInventorySheet(t *testing.T) {
	f := newFixture(t)
	empty := sheets.NewClient(sheets.NewMemory("empty"), nil)
	svc := NewCountService(store.NewInventoryRepository(empty, "재고"), f.counts, f.logs, f.client)

	_, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Widget", Quantity: "1"}},
	})
	require.ErrorIs(t, err, sheets.ErrSheetNotFound)
	assert.Equal(t, "10", f.mem.Rows("재고조사")[1][1])
}

func TestSubmitUsesConfiguredTimezone(t *testing.T) {
	f := newFixture(t)
	seoul := time.FixedZone("KST", 9*60*60)
	late := time.Date(2025, 11, 17, 20, 0, 0, 0, time.UTC)
	svc := f.countService(WithLocation(seoul), WithClock(func() time.Time { return late }))

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries: []types.CountEntry{{Item: "Widget", Quantity: "5"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Logged, 1)
	assert.Equal(t, "2025-11-18", result.Logged[0].Date)
}

func TestSubmitPublishesEvent(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{err: errors.New("broker unavailable")}
	svc := f.countService(WithPublisher(pub))

	result, err := svc.Submit(context.Background(), CountSubmission{
		Entries:     []types.CountEntry{{Item: "Widget", Quantity: "42"}},
		SubmittedBy: "kim",
	})
	require.NoError(t, err, "publish failures must not fail the submission")
	assert.True(t, result.LogWritten)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "2025-11-17", event.Date)
	assert.Equal(t, "kim", event.SubmittedBy)
	assert.Equal(t, result.Logged, event.Entries)
	assert.True(t, event.LogWritten)
}

func TestSubmitEmptyBatchPublishesNothing(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := f.countService(WithPublisher(pub))

	result, err := svc.Submit(context.Background(), CountSubmission{})
	require.NoError(t, err)
	assert.Zero(t, result.CellsWritten)
	assert.Empty(t, pub.events)
}
