package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// RecipeRepository implements repository.Recipe for PostgreSQL
type RecipeRepository struct {
	db *pgxpool.Pool
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *pgxpool.Pool) repository.Recipe {
	return &RecipeRepository{db: db}
}

// GetRecipeForItem loads an item's recipe, nil when it has none. Materials
// and outputs come back in their declared order; outputs are normalized.
func (r *RecipeRepository) GetRecipeForItem(ctx context.Context, itemID string) (*domain.Recipe, error) {
	matRows, err := r.db.Query(ctx,
		`SELECT material_item_id, quantity FROM recipe_materials WHERE item_id = $1 ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe materials: %w", err)
	}
	defer matRows.Close()

	var recipe domain.Recipe
	for matRows.Next() {
		var mat domain.RecipeMaterial
		if err := matRows.Scan(&mat.ItemID, &mat.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe material: %w", err)
		}
		recipe.Materials = append(recipe.Materials, mat)
	}
	if err := matRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe materials: %w", err)
	}

	if len(recipe.Materials) == 0 {
		return nil, nil
	}

	outRows, err := r.db.Query(ctx,
		`SELECT output_item_id, quantity FROM recipe_outputs WHERE item_id = $1 ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe outputs: %w", err)
	}
	defer outRows.Close()

	for outRows.Next() {
		var out domain.RecipeOutput
		if err := outRows.Scan(&out.ItemID, &out.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe output: %w", err)
		}
		recipe.Outputs = append(recipe.Outputs, out)
	}
	if err := outRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe outputs: %w", err)
	}

	recipe.Normalize(itemID)
	return &recipe, nil
}

// SetRecipe replaces the item's materials and outputs atomically
func (r *RecipeRepository) SetRecipe(ctx context.Context, itemID string, recipe domain.Recipe) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_materials WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear recipe materials: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_outputs WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear recipe outputs: %w", err)
	}

	for i, mat := range recipe.Materials {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_materials (item_id, material_item_id, quantity, position) VALUES ($1, $2, $3, $4)`,
			itemID, mat.ItemID, mat.Quantity, i,
		); err != nil {
			return fmt.Errorf("failed to insert recipe material: %w", err)
		}
	}
	for i, out := range recipe.Outputs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_outputs (item_id, output_item_id, quantity, position) VALUES ($1, $2, $3, $4)`,
			itemID, out.ItemID, out.Quantity, i,
		); err != nil {
			return fmt.Errorf("failed to insert recipe output: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteRecipe removes the item's materials and outputs
func (r *RecipeRepository) DeleteRecipe(ctx context.Context, itemID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_materials WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete recipe materials: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_outputs WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete recipe outputs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
