package services

import (
	"context"
	"fmt"

	"github.com/harari-inventory/apiserver/internal/export"
	"github.com/harari-inventory/apiserver/types"
)

// LogReader lists the count log.
type LogReader interface {
	List(ctx context.Context) ([]types.LogEntry, error)
}

// SnapshotService gathers the inventory, count and log sheets for export.
type SnapshotService struct {
	items  InventoryRepository
	counts CountListRepository
	logs   LogReader
}

func NewSnapshotService(items InventoryRepository, counts CountListRepository, logs LogReader) *SnapshotService {
	return &SnapshotService{items: items, counts: counts, logs: logs}
}

func (s *SnapshotService) Collect(ctx context.Context) (export.Snapshot, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return export.Snapshot{}, fmt.Errorf("list inventory: %w", err)
	}
	counts, err := s.counts.List(ctx)
	if err != nil {
		return export.Snapshot{}, fmt.Errorf("list counts: %w", err)
	}
	logs, err := s.logs.List(ctx)
	if err != nil {
		return export.Snapshot{}, fmt.Errorf("list log: %w", err)
	}
	return export.Snapshot{Items: items, Counts: counts, Log: logs}, nil
}
