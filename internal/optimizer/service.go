package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/metrics"
)

// Repository defines the interface for data access required by the optimizer
type Repository interface {
	// ListItems returns the catalog with recipes attached and outputs
	// normalized
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// PriceLookup is the city-scoped price view both evaluators consume.
// Peek never blocks; Ensure populates a cold city before an evaluation so an
// unreachable price source surfaces as an error instead of an empty result.
type PriceLookup interface {
	Peek(itemID, cityName string) (float64, bool)
	Ensure(ctx context.Context, cityName string) error
}

// Service defines the interface for recommendation computations
type Service interface {
	FarmingRecommendations(ctx context.Context, cityName string) ([]domain.FarmingRecommendation, error)
	CraftingRecommendations(ctx context.Context, cityName string) ([]domain.CraftingRecommendation, error)
	Summary(ctx context.Context, cityName string) (*domain.OptimizationSummary, error)
	// InvalidateCatalog drops the cached item snapshot after a catalog
	// mutation (item or recipe write)
	InvalidateCatalog()
}

type service struct {
	repo    Repository
	prices  PriceLookup
	catalog *catalogCache
}

// NewService creates a new optimizer service. catalogSize and catalogTTL
// bound the item snapshot cache; zero values fall back to defaults.
func NewService(repo Repository, prices PriceLookup, catalogSize int, catalogTTL time.Duration) Service {
	return &service{
		repo:    repo,
		prices:  prices,
		catalog: newCatalogCache(catalogSize, catalogTTL),
	}
}

// InvalidateCatalog drops the cached item snapshot
func (s *service) InvalidateCatalog() {
	s.catalog.Clear()
}

// snapshot loads the item catalog, served from the catalog cache when fresh
func (s *service) snapshot(ctx context.Context) ([]domain.Item, error) {
	if items, ok := s.catalog.Get(); ok {
		return items, nil
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	s.catalog.Set(items)
	return items, nil
}

// FarmingRecommendations ranks priced items by expected coin yield per hour
func (s *service) FarmingRecommendations(ctx context.Context, cityName string) ([]domain.FarmingRecommendation, error) {
	log := logger.FromContext(ctx)

	if cityName == "" {
		return nil, domain.ErrCityRequired
	}

	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.prices.Ensure(ctx, cityName); err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", cityName, err)
	}

	recs := evaluateFarming(items, func(itemID string) (float64, bool) {
		return s.prices.Peek(itemID, cityName)
	})

	metrics.RecommendationsComputed.WithLabelValues("farming").Inc()
	log.Info("Farming recommendations computed", "city", cityName, "count", len(recs))
	return recs, nil
}

// CraftingRecommendations evaluates every craftable item against the city's
// current prices and returns the tiered ranking
func (s *service) CraftingRecommendations(ctx context.Context, cityName string) ([]domain.CraftingRecommendation, error) {
	log := logger.FromContext(ctx)

	if cityName == "" {
		return nil, domain.ErrCityRequired
	}

	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.prices.Ensure(ctx, cityName); err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", cityName, err)
	}

	recs := evaluateCrafting(items, func(itemID string) (float64, bool) {
		return s.prices.Peek(itemID, cityName)
	})

	metrics.RecommendationsComputed.WithLabelValues("crafting").Inc()
	log.Info("Crafting recommendations computed", "city", cityName, "count", len(recs))
	return recs, nil
}

// Summary aggregates catalog counts with the best of each recommendation list
func (s *service) Summary(ctx context.Context, cityName string) (*domain.OptimizationSummary, error) {
	if cityName == "" {
		return nil, domain.ErrCityRequired
	}

	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.prices.Ensure(ctx, cityName); err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", cityName, err)
	}

	priceFor := func(itemID string) (float64, bool) {
		return s.prices.Peek(itemID, cityName)
	}
	farming := evaluateFarming(items, priceFor)
	crafting := evaluateCrafting(items, priceFor)

	summary := &domain.OptimizationSummary{
		TotalItems:              len(items),
		FarmingRecommendations:  len(farming),
		CraftingRecommendations: len(crafting),
	}
	for i := range items {
		if items[i].Category == domain.CategoryResource && items[i].FarmingTime != nil && *items[i].FarmingTime > 0 {
			summary.FarmableCount++
		}
		if items[i].Craftable() {
			summary.CraftableCount++
		}
	}
	if len(farming) > 0 {
		summary.BestFarming = &farming[0]
	}
	if len(crafting) > 0 {
		summary.BestCrafting = &crafting[0]
	}

	metrics.RecommendationsComputed.WithLabelValues("summary").Inc()
	return summary, nil
}
