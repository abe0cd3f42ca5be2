package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/pricecache"
)

func priceRouter(priceRepo *MockPriceRepository, itemRepo *MockItemRepository, cache *pricecache.Cache) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/prices", HandleUpsertPrice(priceRepo, itemRepo, cache))
	r.Get("/api/v1/prices/{cityName}", HandleListPricesForCity(priceRepo))
	r.Get("/api/v1/prices/{cityName}/{itemName}", HandleGetPrice(priceRepo, itemRepo))
	r.Delete("/api/v1/prices/{cityName}/{itemName}", HandleDeletePrice(priceRepo, itemRepo, cache))
	r.Get("/api/v1/cities", HandleListCities(priceRepo))
	return r
}

func TestHandleGetPrice(t *testing.T) {
	ironOre := &domain.Item{ID: "id-1", Name: "Iron Ore", Tier: 1, Category: domain.CategoryResource}

	t.Run("Priced Item", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}
		itemRepo.On("GetItemByName", mock.Anything, "IronOre").Return(ironOre, nil)
		priceRepo.On("GetPrice", mock.Anything, "id-1", "Calenthyr").
			Return(&domain.Price{ItemID: "id-1", CityName: "Calenthyr", Price: 10}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/Calenthyr/IronOre", nil)
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"price":10}`, w.Body.String())
	})

	t.Run("Unpriced Item Returns Null Price", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}
		itemRepo.On("GetItemByName", mock.Anything, "IronOre").Return(ironOre, nil)
		priceRepo.On("GetPrice", mock.Anything, "id-1", "Duskmere").
			Return(nil, domain.ErrPriceNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/Duskmere/IronOre", nil)
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"price":null}`, w.Body.String())
	})

	t.Run("Unknown Item 404s", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}
		itemRepo.On("GetItemByName", mock.Anything, "Ghost").Return(nil, domain.ErrItemNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/Calenthyr/Ghost", nil)
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		priceRepo.AssertNotCalled(t, "GetPrice")
	})
}

func TestHandleUpsertPrice(t *testing.T) {
	InitValidator()
	ironOre := &domain.Item{ID: "id-1", Name: "Iron Ore", Tier: 1, Category: domain.CategoryResource}

	t.Run("Success Writes Through Cache", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}
		itemRepo.On("GetItemByName", mock.Anything, "Iron Ore").Return(ironOre, nil)
		priceRepo.On("UpsertPrice", mock.Anything, "id-1", "Calenthyr", 12.0).
			Return(&domain.Price{ItemID: "id-1", CityName: "Calenthyr", Price: 12}, nil)

		cache := newTestCache()
		body, _ := json.Marshal(UpsertPriceRequest{ItemName: "Iron Ore", CityName: "Calenthyr", Price: 12})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prices", bytes.NewReader(body))
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, cache).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		got, ok := cache.Peek("id-1", "Calenthyr")
		require.True(t, ok)
		assert.Equal(t, 12.0, got)
	})

	t.Run("Non-Positive Price Rejected", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}

		body, _ := json.Marshal(UpsertPriceRequest{ItemName: "Iron Ore", CityName: "Calenthyr", Price: -5})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prices", bytes.NewReader(body))
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		priceRepo.AssertNotCalled(t, "UpsertPrice")
	})

	t.Run("Unknown Item 404s", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}
		itemRepo.On("GetItemByName", mock.Anything, "Ghost").Return(nil, domain.ErrItemNotFound)

		body, _ := json.Marshal(UpsertPriceRequest{ItemName: "Ghost", CityName: "Calenthyr", Price: 5})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prices", bytes.NewReader(body))
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleDeletePrice(t *testing.T) {
	ironOre := &domain.Item{ID: "id-1", Name: "Iron Ore", Tier: 1, Category: domain.CategoryResource}

	t.Run("Success Invalidates Cache Entry", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		itemRepo := &MockItemRepository{}
		itemRepo.On("GetItemByName", mock.Anything, "IronOre").Return(ironOre, nil)
		priceRepo.On("DeletePrice", mock.Anything, "id-1", "Calenthyr").Return(nil)

		cache := newTestCache()
		cache.Put(domain.Price{ItemID: "id-1", CityName: "Calenthyr", Price: 10})

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/prices/Calenthyr/IronOre", nil)
		w := httptest.NewRecorder()

		priceRouter(priceRepo, itemRepo, cache).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		_, ok := cache.Peek("id-1", "Calenthyr")
		assert.False(t, ok)
	})
}

func TestHandleListPricesForCity(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		priceRepo.On("ListPricesForCity", mock.Anything, "Calenthyr").Return([]domain.Price{
			{ItemID: "id-1", CityName: "Calenthyr", Price: 10},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/Calenthyr", nil)
		w := httptest.NewRecorder()

		priceRouter(priceRepo, &MockItemRepository{}, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var prices []domain.Price
		require.NoError(t, json.NewDecoder(w.Body).Decode(&prices))
		require.Len(t, prices, 1)
		assert.Equal(t, 10.0, prices[0].Price)
	})

	t.Run("City With No Prices Returns Empty Array", func(t *testing.T) {
		priceRepo := &MockPriceRepository{}
		priceRepo.On("ListPricesForCity", mock.Anything, "Nowhere").Return([]domain.Price(nil), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/Nowhere", nil)
		w := httptest.NewRecorder()

		priceRouter(priceRepo, &MockItemRepository{}, newTestCache()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestHandleListCities(t *testing.T) {
	priceRepo := &MockPriceRepository{}
	priceRepo.On("ListCities", mock.Anything).Return([]string{"Calenthyr", "Duskmere"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil)
	w := httptest.NewRecorder()

	priceRouter(priceRepo, &MockItemRepository{}, newTestCache()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Calenthyr","Duskmere"]`, w.Body.String())
}
