package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harari-inventory/apiserver/internal/dates"
	"github.com/harari-inventory/apiserver/internal/logger"
	"github.com/harari-inventory/apiserver/internal/metrics"
	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/harari-inventory/apiserver/types"
)

// ProtectedLogWarning is reported when the log sheet rejects the rewrite
// because it is protected.
const ProtectedLogWarning = "재고로그 시트가 보호되어 있어 업데이트할 수 없습니다. 스프레드시트 소유자에게 보호를 해제해달라고 요청하세요."

const defaultLogWarning = "재고로그 업데이트 실패"

// InventoryIndexer resolves item names against the inventory sheet.
type InventoryIndexer interface {
	Index(ctx context.Context) (map[string]store.InventoryRef, error)
	StockUpdate(row int, quantity string) sheets.Update
}

// CountSheetLoader resolves item names against the count sheet.
type CountSheetLoader interface {
	Load(ctx context.Context) (store.CountSheet, error)
	QuantityUpdate(row int, quantity string) sheets.Update
}

// LogTable reads and rewrites the count log.
type LogTable interface {
	List(ctx context.Context) ([]types.LogEntry, error)
	Replace(ctx context.Context, entries []types.LogEntry, previous int) error
}

// BatchWriter applies staged cell writes in one round trip.
type BatchWriter interface {
	BatchWrite(ctx context.Context, updates []sheets.Update) error
}

// CountPublisher is notified after a submission reached the sheets.
type CountPublisher interface {
	PublishCount(ctx context.Context, event types.CountEvent) error
}

// CountSubmission is a batch of counted quantities.
type CountSubmission struct {
	Entries     []types.CountEntry
	SubmittedBy string
}

// CountResult describes what a submission changed. Warning is set when the
// quantities were stored but the log could not be rewritten.
type CountResult struct {
	CellsWritten int
	Logged       []types.LogEntry
	LogWritten   bool
	Warning      string
}

// CountService reconciles count submissions into the count, inventory and
// log sheets.
type CountService struct {
	inventory InventoryIndexer
	counts    CountSheetLoader
	logs      LogTable
	writer    BatchWriter
	loc       *time.Location
	now       func() time.Time
	log       *logger.Logger
	metrics   *metrics.CountMetrics
	publisher CountPublisher
}

// CountOption customizes a CountService.
type CountOption func(*CountService)

// WithLocation sets the timezone that decides the logged calendar day.
func WithLocation(loc *time.Location) CountOption {
	return func(s *CountService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CountOption {
	return func(s *CountService) { s.now = now }
}

func WithLogger(log *logger.Logger) CountOption {
	return func(s *CountService) { s.log = log }
}

func WithMetrics(m *metrics.CountMetrics) CountOption {
	return func(s *CountService) { s.metrics = m }
}

func WithPublisher(p CountPublisher) CountOption {
	return func(s *CountService) { s.publisher = p }
}

func NewCountService(inventory InventoryIndexer, counts CountSheetLoader, logs LogTable, writer BatchWriter, opts ...CountOption) *CountService {
	s := &CountService{
		inventory: inventory,
		counts:    counts,
		logs:      logs,
		writer:    writer,
		loc:       time.UTC,
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit writes counted quantities to the count and inventory sheets in one
// batch, then merges the readings into the log. An error means nothing past
// the reads is guaranteed to have happened; a log failure after a
// successful batch is reported through CountResult.Warning instead.
//
// Entries repeating an item name are applied in order, so the last one is
// what the sheets end up holding.
func (s *CountService) Submit(ctx context.Context, sub CountSubmission) (CountResult, error) {
	start := s.now()

	result, err := s.apply(ctx, sub)
	if err != nil {
		s.metrics.Observe(metrics.OutcomeFailure, s.now().Sub(start), 0)
		return CountResult{}, err
	}

	if len(result.Logged) > 0 {
		if err := s.reconcileLog(ctx, result.Logged); err != nil {
			s.log.Error(ctx, "count.log_merge_failed", err)
			result.Warning = logWarning(err)
		} else {
			result.LogWritten = true
		}
	}

	outcome := metrics.OutcomeSuccess
	if result.Warning != "" {
		outcome = metrics.OutcomeWarning
	}
	s.metrics.Observe(outcome, s.now().Sub(start), result.CellsWritten)
	s.publish(ctx, sub, result)
	return result, nil
}

func (s *CountService) apply(ctx context.Context, sub CountSubmission) (CountResult, error) {
	index, err := s.inventory.Index(ctx)
	if err != nil {
		return CountResult{}, fmt.Errorf("load inventory: %w", err)
	}

	today := dates.Today(s.now(), s.loc)

	countSheet, err := s.counts.Load(ctx)
	if err != nil {
		return CountResult{}, fmt.Errorf("load count sheet: %w", err)
	}

	updates := make([]sheets.Update, 0, len(sub.Entries)*2)
	logged := make([]types.LogEntry, 0, len(sub.Entries))
	for _, entry := range sub.Entries {
		if row, ok := countSheet.Row(entry.Item); ok {
			updates = append(updates, s.counts.QuantityUpdate(row, entry.Quantity))
		}

		ref, ok := index[entry.Item]
		if !ok {
			continue
		}
		updates = append(updates, s.inventory.StockUpdate(ref.Row, entry.Quantity))
		logged = append(logged, types.LogEntry{
			Date:     today,
			Code:     ref.Code,
			Name:     ref.Name,
			Quantity: entry.Quantity,
		})
	}

	if len(updates) > 0 {
		if err := s.writer.BatchWrite(ctx, updates); err != nil {
			return CountResult{}, fmt.Errorf("apply count updates: %w", err)
		}
	}

	return CountResult{CellsWritten: len(updates), Logged: logged}, nil
}

func (s *CountService) reconcileLog(ctx context.Context, pending []types.LogEntry) error {
	existing, err := s.logs.List(ctx)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	merged := MergeLog(existing, pending, s.loc)
	if err := s.logs.Replace(ctx, merged, len(existing)); err != nil {
		return fmt.Errorf("rewrite log: %w", err)
	}
	s.metrics.SetLogRows(len(merged))
	return nil
}

func (s *CountService) publish(ctx context.Context, sub CountSubmission, result CountResult) {
	if s.publisher == nil || result.CellsWritten == 0 {
		return
	}

	now := s.now()
	event := types.CountEvent{
		ID:          uuid.NewString(),
		Date:        dates.Today(now, s.loc),
		SubmittedBy: sub.SubmittedBy,
		Entries:     result.Logged,
		LogWritten:  result.LogWritten,
		Warning:     result.Warning,
		OccurredAt:  now.UTC(),
	}
	if err := s.publisher.PublishCount(ctx, event); err != nil {
		s.log.Error(s.log.WithField(ctx, "event_id", event.ID), "count.publish_failed", err)
	}
}

func logWarning(err error) string {
	if sheets.IsProtected(err) {
		return ProtectedLogWarning
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return defaultLogWarning
}
