package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

// MockItemRepository implements repository.Item for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) GetItemByName(ctx context.Context, name string) (*domain.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) UpsertItems(ctx context.Context, items []domain.Item) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

func (m *MockItemRepository) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPriceRepository implements repository.Price for testing
type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) GetPrice(ctx context.Context, itemID, cityName string) (*domain.Price, error) {
	args := m.Called(ctx, itemID, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Price), args.Error(1)
}

func (m *MockPriceRepository) ListPricesForCity(ctx context.Context, cityName string) ([]domain.Price, error) {
	args := m.Called(ctx, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Price), args.Error(1)
}

func (m *MockPriceRepository) UpsertPrice(ctx context.Context, itemID, cityName string, price float64) (*domain.Price, error) {
	args := m.Called(ctx, itemID, cityName, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Price), args.Error(1)
}

func (m *MockPriceRepository) DeletePrice(ctx context.Context, itemID, cityName string) error {
	args := m.Called(ctx, itemID, cityName)
	return args.Error(0)
}

func (m *MockPriceRepository) ListCities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRecipeRepository implements repository.Recipe for testing
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) GetRecipeForItem(ctx context.Context, itemID string) (*domain.Recipe, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) SetRecipe(ctx context.Context, itemID string, recipe domain.Recipe) error {
	args := m.Called(ctx, itemID, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) DeleteRecipe(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// MockOptimizerService implements optimizer.Service for testing
type MockOptimizerService struct {
	mock.Mock
}

func (m *MockOptimizerService) FarmingRecommendations(ctx context.Context, cityName string) ([]domain.FarmingRecommendation, error) {
	args := m.Called(ctx, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FarmingRecommendation), args.Error(1)
}

func (m *MockOptimizerService) CraftingRecommendations(ctx context.Context, cityName string) ([]domain.CraftingRecommendation, error) {
	args := m.Called(ctx, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CraftingRecommendation), args.Error(1)
}

func (m *MockOptimizerService) Summary(ctx context.Context, cityName string) (*domain.OptimizationSummary, error) {
	args := m.Called(ctx, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OptimizationSummary), args.Error(1)
}

func (m *MockOptimizerService) InvalidateCatalog() {
	m.Called()
}
