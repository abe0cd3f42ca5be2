package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/database"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

func TestRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	var pgContainer *postgres.PostgresContainer
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		pgContainer, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(5*time.Second)),
		)
	}()

	if pgContainer == nil {
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate(ctx, connStr); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	pool, err := database.NewPool(connStr, 4, time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	itemRepo := NewItemRepository(pool)
	priceRepo := NewPriceRepository(pool)
	recipeRepo := NewRecipeRepository(pool)

	farmingTime := 2.0
	ore := &domain.Item{Name: "Iron Ore", Tier: 1, Category: domain.CategoryResource, FarmingTime: &farmingTime}
	sword := &domain.Item{Name: "Iron Sword", Tier: 2, Category: domain.CategoryCrafted}

	t.Run("CreateItem assigns ID", func(t *testing.T) {
		if err := itemRepo.CreateItem(ctx, ore); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if ore.ID == "" {
			t.Error("expected item ID to be set")
		}
		if err := itemRepo.CreateItem(ctx, sword); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
	})

	t.Run("Duplicate name conflicts", func(t *testing.T) {
		dup := &domain.Item{Name: "Iron Ore", Tier: 3, Category: domain.CategoryResource}
		err := itemRepo.CreateItem(ctx, dup)
		if !errors.Is(err, domain.ErrItemExists) {
			t.Errorf("expected ErrItemExists, got %v", err)
		}
	})

	t.Run("Recipe round trip preserves declaration order", func(t *testing.T) {
		recipe := domain.Recipe{
			Materials: []domain.RecipeMaterial{
				{ItemID: ore.ID, Quantity: 2},
			},
		}
		recipe.Normalize(sword.ID)

		if err := recipeRepo.SetRecipe(ctx, sword.ID, recipe); err != nil {
			t.Fatalf("SetRecipe failed: %v", err)
		}

		got, err := recipeRepo.GetRecipeForItem(ctx, sword.ID)
		if err != nil {
			t.Fatalf("GetRecipeForItem failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a recipe")
		}
		if len(got.Materials) != 1 || got.Materials[0].ItemID != ore.ID || got.Materials[0].Quantity != 2 {
			t.Errorf("unexpected materials: %+v", got.Materials)
		}
		if len(got.Outputs) != 1 || got.Outputs[0].ItemID != sword.ID {
			t.Errorf("unexpected outputs: %+v", got.Outputs)
		}
	})

	t.Run("ListItems attaches recipes", func(t *testing.T) {
		items, err := itemRepo.ListItems(ctx)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		var found *domain.Item
		for i := range items {
			if items[i].ID == sword.ID {
				found = &items[i]
			}
		}
		if found == nil {
			t.Fatal("sword missing from catalog")
		}
		if !found.Craftable() {
			t.Error("expected sword to be craftable after SetRecipe")
		}
	})

	t.Run("UpsertPrice round trip", func(t *testing.T) {
		written, err := priceRepo.UpsertPrice(ctx, ore.ID, "Calenthyr", 10)
		if err != nil {
			t.Fatalf("UpsertPrice failed: %v", err)
		}
		if written.ID == "" {
			t.Error("expected price ID to be set")
		}

		// A second upsert for the same pair replaces, never duplicates
		if _, err := priceRepo.UpsertPrice(ctx, ore.ID, "Calenthyr", 12); err != nil {
			t.Fatalf("second UpsertPrice failed: %v", err)
		}

		got, err := priceRepo.GetPrice(ctx, ore.ID, "Calenthyr")
		if err != nil {
			t.Fatalf("GetPrice failed: %v", err)
		}
		if got.Price != 12 {
			t.Errorf("expected price 12, got %v", got.Price)
		}

		prices, err := priceRepo.ListPricesForCity(ctx, "Calenthyr")
		if err != nil {
			t.Fatalf("ListPricesForCity failed: %v", err)
		}
		if len(prices) != 1 {
			t.Errorf("expected 1 price row, got %d", len(prices))
		}
	})

	t.Run("Prices are city scoped", func(t *testing.T) {
		if _, err := priceRepo.UpsertPrice(ctx, ore.ID, "Duskmere", 25); err != nil {
			t.Fatalf("UpsertPrice failed: %v", err)
		}

		_, err := priceRepo.GetPrice(ctx, ore.ID, "Emberfall")
		if !errors.Is(err, domain.ErrPriceNotFound) {
			t.Errorf("expected ErrPriceNotFound for unknown city, got %v", err)
		}

		cities, err := priceRepo.ListCities(ctx)
		if err != nil {
			t.Fatalf("ListCities failed: %v", err)
		}
		if len(cities) != 2 {
			t.Errorf("expected 2 cities, got %v", cities)
		}
	})

	t.Run("DeleteItem cascades prices and recipe rows", func(t *testing.T) {
		if err := itemRepo.DeleteItem(ctx, ore.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}

		_, err := priceRepo.GetPrice(ctx, ore.ID, "Calenthyr")
		if !errors.Is(err, domain.ErrPriceNotFound) {
			t.Errorf("expected price rows to cascade, got %v", err)
		}

		// The sword's recipe referenced the ore as a material
		recipe, err := recipeRepo.GetRecipeForItem(ctx, sword.ID)
		if err != nil {
			t.Fatalf("GetRecipeForItem failed: %v", err)
		}
		if recipe != nil {
			t.Errorf("expected material cascade to empty the recipe, got %+v", recipe)
		}
	})

	t.Run("DeleteItem on unknown ID", func(t *testing.T) {
		err := itemRepo.DeleteItem(ctx, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound, got %v", err)
		}
	})
}
