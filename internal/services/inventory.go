package services

import (
	"context"

	"github.com/harari-inventory/apiserver/types"
)

// InventoryRepository defines read operations on the inventory sheet.
type InventoryRepository interface {
	List(ctx context.Context) ([]types.InventoryItem, error)
}

// CountListRepository defines read operations on the count sheet.
type CountListRepository interface {
	List(ctx context.Context) ([]types.CountEntry, error)
}

// InventoryService serves the read views.
type InventoryService struct {
	items  InventoryRepository
	counts CountListRepository
}

func NewInventoryService(items InventoryRepository, counts CountListRepository) *InventoryService {
	return &InventoryService{items: items, counts: counts}
}

func (s *InventoryService) Items(ctx context.Context) ([]types.InventoryItem, error) {
	return s.items.List(ctx)
}

func (s *InventoryService) Counts(ctx context.Context) ([]types.CountEntry, error) {
	return s.counts.List(ctx)
}
