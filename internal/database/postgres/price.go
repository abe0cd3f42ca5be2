package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// PriceRepository implements repository.Price for PostgreSQL
type PriceRepository struct {
	db *pgxpool.Pool
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(db *pgxpool.Pool) repository.Price {
	return &PriceRepository{db: db}
}

// GetPrice returns the one active price for (item, city), or
// domain.ErrPriceNotFound
func (r *PriceRepository) GetPrice(ctx context.Context, itemID, cityName string) (*domain.Price, error) {
	query := `
		SELECT id, item_id, city_name, price, last_updated
		FROM item_prices
		WHERE item_id = $1 AND city_name = $2
	`
	var p domain.Price
	err := r.db.QueryRow(ctx, query, itemID, cityName).
		Scan(&p.ID, &p.ItemID, &p.CityName, &p.Price, &p.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPriceNotFound
		}
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return &p, nil
}

// ListPricesForCity retrieves all prices recorded for a city, most recently
// updated first
func (r *PriceRepository) ListPricesForCity(ctx context.Context, cityName string) ([]domain.Price, error) {
	query := `
		SELECT id, item_id, city_name, price, last_updated
		FROM item_prices
		WHERE city_name = $1
		ORDER BY last_updated DESC
	`
	rows, err := r.db.Query(ctx, query, cityName)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.Price
	for rows.Next() {
		var p domain.Price
		if err := rows.Scan(&p.ID, &p.ItemID, &p.CityName, &p.Price, &p.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}
	return prices, nil
}

// UpsertPrice writes the one active price for (item, city), refreshing
// last_updated
func (r *PriceRepository) UpsertPrice(ctx context.Context, itemID, cityName string, price float64) (*domain.Price, error) {
	query := `
		INSERT INTO item_prices (item_id, city_name, price, last_updated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, city_name) DO UPDATE SET
			price = EXCLUDED.price,
			last_updated = now()
		RETURNING id, item_id, city_name, price, last_updated
	`
	var p domain.Price
	err := r.db.QueryRow(ctx, query, itemID, cityName, price).
		Scan(&p.ID, &p.ItemID, &p.CityName, &p.Price, &p.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert price: %w", err)
	}
	return &p, nil
}

// DeletePrice removes the price for (item, city)
func (r *PriceRepository) DeletePrice(ctx context.Context, itemID, cityName string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM item_prices WHERE item_id = $1 AND city_name = $2`, itemID, cityName)
	if err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPriceNotFound
	}
	return nil
}

// ListCities returns the distinct city names with at least one recorded
// price, sorted ascending
func (r *PriceRepository) ListCities(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT city_name FROM item_prices ORDER BY city_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}
	return cities, nil
}
