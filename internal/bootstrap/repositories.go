package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/database/postgres"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Item   repository.Item
	Price  repository.Price
	Recipe repository.Recipe
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Item:   postgres.NewItemRepository(dbPool),
		Price:  postgres.NewPriceRepository(dbPool),
		Recipe: postgres.NewRecipeRepository(dbPool),
	}
}
