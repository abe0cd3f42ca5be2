package repository

import (
	"context"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

// Item defines the interface for item catalog persistence
type Item interface {
	// ListItems returns the full catalog with recipes attached and recipe
	// outputs normalized (a craftable item always has at least one output)
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItemByID(ctx context.Context, id string) (*domain.Item, error)
	GetItemByName(ctx context.Context, name string) (*domain.Item, error)
	CreateItem(ctx context.Context, item *domain.Item) error
	// UpsertItems inserts or updates items keyed by name, returning the
	// number of items written
	UpsertItems(ctx context.Context, items []domain.Item) (int, error)
	// DeleteItem removes an item along with its prices and recipe rows
	DeleteItem(ctx context.Context, id string) error
}
