package repository

import (
	"context"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

// Recipe defines the interface for recipe persistence
type Recipe interface {
	// GetRecipeForItem returns nil when the item has no recipe
	GetRecipeForItem(ctx context.Context, itemID string) (*domain.Recipe, error)
	// SetRecipe replaces the item's materials and outputs atomically
	SetRecipe(ctx context.Context, itemID string, recipe domain.Recipe) error
	DeleteRecipe(ctx context.Context, itemID string) error
}
