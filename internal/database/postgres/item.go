package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// ItemRepository implements repository.Item for PostgreSQL
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *pgxpool.Pool) repository.Item {
	return &ItemRepository{db: db}
}

const itemColumns = "id, name, tier, category, description, rarity, image_url, farming_time, crafting_time"

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	var rarity *string
	if err := row.Scan(&item.ID, &item.Name, &item.Tier, &item.Category, &item.Description,
		&rarity, &item.ImageURL, &item.FarmingTime, &item.CraftingTime); err != nil {
		return nil, err
	}
	if rarity != nil {
		r := domain.Rarity(*rarity)
		item.Rarity = &r
	}
	return &item, nil
}

// ListItems retrieves the full catalog with recipes attached. Recipe rows
// are read in their declared order; outputs are normalized so every
// craftable item has at least one output.
func (r *ItemRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	index := make(map[string]int)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	if err := r.attachRecipes(ctx, items, index); err != nil {
		return nil, err
	}
	return items, nil
}

// attachRecipes loads all recipe material and output rows in bulk and hangs
// them off the items they belong to
func (r *ItemRepository) attachRecipes(ctx context.Context, items []domain.Item, index map[string]int) error {
	matRows, err := r.db.Query(ctx,
		`SELECT item_id, material_item_id, quantity FROM recipe_materials ORDER BY item_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query recipe materials: %w", err)
	}
	defer matRows.Close()

	for matRows.Next() {
		var itemID string
		var mat domain.RecipeMaterial
		if err := matRows.Scan(&itemID, &mat.ItemID, &mat.Quantity); err != nil {
			return fmt.Errorf("failed to scan recipe material: %w", err)
		}
		i, ok := index[itemID]
		if !ok {
			continue
		}
		if items[i].Recipe == nil {
			items[i].Recipe = &domain.Recipe{}
		}
		items[i].Recipe.Materials = append(items[i].Recipe.Materials, mat)
	}
	if err := matRows.Err(); err != nil {
		return fmt.Errorf("error iterating recipe materials: %w", err)
	}

	outRows, err := r.db.Query(ctx,
		`SELECT item_id, output_item_id, quantity FROM recipe_outputs ORDER BY item_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query recipe outputs: %w", err)
	}
	defer outRows.Close()

	for outRows.Next() {
		var itemID string
		var out domain.RecipeOutput
		if err := outRows.Scan(&itemID, &out.ItemID, &out.Quantity); err != nil {
			return fmt.Errorf("failed to scan recipe output: %w", err)
		}
		i, ok := index[itemID]
		if !ok {
			continue
		}
		if items[i].Recipe == nil {
			items[i].Recipe = &domain.Recipe{}
		}
		items[i].Recipe.Outputs = append(items[i].Recipe.Outputs, out)
	}
	if err := outRows.Err(); err != nil {
		return fmt.Errorf("error iterating recipe outputs: %w", err)
	}

	for i := range items {
		if items[i].Recipe != nil {
			items[i].Recipe.Normalize(items[i].ID)
		}
	}
	return nil
}

// GetItemByID retrieves an item by ID
func (r *ItemRepository) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// GetItemByName retrieves an item by its unique name
func (r *ItemRepository) GetItemByName(ctx context.Context, name string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE name = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// CreateItem inserts a new item, failing with domain.ErrItemExists when the
// name is taken
func (r *ItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (name, tier, category, description, rarity, image_url, farming_time, crafting_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		item.Name, item.Tier, item.Category, item.Description,
		rarityToText(item.Rarity), item.ImageURL, item.FarmingTime, item.CraftingTime,
	).Scan(&item.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrItemExists
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// UpsertItems inserts or updates items keyed by name, returning the number
// of items written
func (r *ItemRepository) UpsertItems(ctx context.Context, items []domain.Item) (int, error) {
	query := `
		INSERT INTO items (name, tier, category, description, rarity, image_url, farming_time, crafting_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			tier = EXCLUDED.tier,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			rarity = EXCLUDED.rarity,
			image_url = EXCLUDED.image_url,
			farming_time = EXCLUDED.farming_time,
			crafting_time = EXCLUDED.crafting_time
	`
	count := 0
	for i := range items {
		item := &items[i]
		if _, err := r.db.Exec(ctx, query,
			item.Name, item.Tier, item.Category, item.Description,
			rarityToText(item.Rarity), item.ImageURL, item.FarmingTime, item.CraftingTime,
		); err != nil {
			return count, fmt.Errorf("failed to upsert item %s: %w", item.Name, err)
		}
		count++
	}
	return count, nil
}

// DeleteItem removes an item; prices and recipe rows go with it via cascade
func (r *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func rarityToText(r *domain.Rarity) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
