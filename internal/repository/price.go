package repository

import (
	"context"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

// Price defines the interface for city-scoped price persistence.
// One active price per (item, city) pair; writes are upserts.
type Price interface {
	// GetPrice returns domain.ErrPriceNotFound when no price is recorded
	// for the pair. Absence is a value-level signal, not a failure.
	GetPrice(ctx context.Context, itemID, cityName string) (*domain.Price, error)
	ListPricesForCity(ctx context.Context, cityName string) ([]domain.Price, error)
	UpsertPrice(ctx context.Context, itemID, cityName string, price float64) (*domain.Price, error)
	DeletePrice(ctx context.Context, itemID, cityName string) error
	// ListCities returns the distinct city names that have at least one
	// recorded price, sorted ascending
	ListCities(ctx context.Context) ([]string, error)
}
