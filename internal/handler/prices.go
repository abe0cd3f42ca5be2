package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/metrics"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/pricecache"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// UpsertPriceRequest sets the one active price for an item in a city
type UpsertPriceRequest struct {
	ItemName string  `json:"itemName" validate:"required"`
	CityName string  `json:"cityName" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// PriceValueResponse carries a single looked-up price; Price is null when no
// price is recorded for the pair
type PriceValueResponse struct {
	Price *float64 `json:"price"`
}

// HandleListPricesForCity returns every price recorded for a city
// @Summary List city prices
// @Tags prices
// @Produce json
// @Success 200 {array} domain.Price
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/prices/{cityName} [get]
func HandleListPricesForCity(priceRepo repository.Price) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		cityName := chi.URLParam(r, "cityName")

		prices, err := priceRepo.ListPricesForCity(r.Context(), cityName)
		if err != nil {
			log.Error("Failed to list prices", "city", cityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		if prices == nil {
			prices = []domain.Price{}
		}

		respondJSON(w, http.StatusOK, prices)
	}
}

// HandleGetPrice looks up one item's price in one city. A missing price is
// not an error: the response carries a null price.
// @Summary Get item price
// @Tags prices
// @Produce json
// @Success 200 {object} PriceValueResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/prices/{cityName}/{itemName} [get]
func HandleGetPrice(priceRepo repository.Price, itemRepo repository.Item) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		cityName := chi.URLParam(r, "cityName")
		itemName := chi.URLParam(r, "itemName")

		item, err := itemRepo.GetItemByName(r.Context(), itemName)
		if err != nil {
			log.Warn("Item lookup failed", "item", itemName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		price, err := priceRepo.GetPrice(r.Context(), item.ID, cityName)
		if err != nil {
			if errors.Is(err, domain.ErrPriceNotFound) {
				respondJSON(w, http.StatusOK, PriceValueResponse{Price: nil})
				return
			}
			log.Error("Failed to get price", "item", itemName, "city", cityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, PriceValueResponse{Price: &price.Price})
	}
}

// HandleUpsertPrice writes the one active price for (item, city) and writes
// it through to the price cache
// @Summary Upsert price
// @Tags prices
// @Accept json
// @Produce json
// @Success 200 {object} domain.Price
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/prices [post]
func HandleUpsertPrice(priceRepo repository.Price, itemRepo repository.Item, cache *pricecache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req UpsertPriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		item, err := itemRepo.GetItemByName(r.Context(), req.ItemName)
		if err != nil {
			log.Warn("Item lookup failed", "item", req.ItemName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		price, err := priceRepo.UpsertPrice(r.Context(), item.ID, req.CityName, req.Price)
		if err != nil {
			log.Error("Failed to upsert price", "item", req.ItemName, "city", req.CityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		cache.Put(*price)
		metrics.PricesUpserted.WithLabelValues(req.CityName).Inc()

		log.Info("Price upserted", "item", req.ItemName, "city", req.CityName, "price", req.Price)
		respondJSON(w, http.StatusOK, price)
	}
}

// HandleDeletePrice removes the price for (item, city) and invalidates the
// cached entry
// @Summary Delete price
// @Tags prices
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/prices/{cityName}/{itemName} [delete]
func HandleDeletePrice(priceRepo repository.Price, itemRepo repository.Item, cache *pricecache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		cityName := chi.URLParam(r, "cityName")
		itemName := chi.URLParam(r, "itemName")

		item, err := itemRepo.GetItemByName(r.Context(), itemName)
		if err != nil {
			log.Warn("Item lookup failed", "item", itemName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		if err := priceRepo.DeletePrice(r.Context(), item.ID, cityName); err != nil {
			log.Error("Failed to delete price", "item", itemName, "city", cityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		cache.Invalidate(item.ID, cityName)

		log.Info("Price deleted", "item", itemName, "city", cityName)
		respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

// HandleListCities returns the cities that have at least one recorded price
// @Summary List cities
// @Tags prices
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/cities [get]
func HandleListCities(priceRepo repository.Price) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		cities, err := priceRepo.ListCities(r.Context())
		if err != nil {
			log.Error("Failed to list cities", "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		if cities == nil {
			cities = []string{}
		}

		respondJSON(w, http.StatusOK, cities)
	}
}
