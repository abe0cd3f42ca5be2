package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/optimizer"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/pricecache"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// CreateItemRequest is the payload for creating a single item
type CreateItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Tier     int     `json:"tier" validate:"required,gt=0"`
	Category string  `json:"type" validate:"omitempty,category"`
	ImageURL *string `json:"imageUrl"`
}

// InitItemsRequest is the bulk seed payload
type InitItemsRequest struct {
	Items []ItemSeed `json:"items" validate:"required,min=1,dive"`
}

// ItemSeed is one item in the bulk seed payload
type ItemSeed struct {
	Name         string   `json:"name" validate:"required"`
	Tier         int      `json:"tier" validate:"required,gt=0"`
	Category     string   `json:"type" validate:"required,category"`
	Description  string   `json:"description"`
	Rarity       *string  `json:"rarity"`
	ImageURL     *string  `json:"imageUrl"`
	FarmingTime  *float64 `json:"farmingTime"`
	CraftingTime *float64 `json:"craftingTime"`
}

// InitItemsResponse reports how many items the bulk seed wrote
type InitItemsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// HandleListItems returns the full item catalog with recipes attached
// @Summary List items
// @Tags items
// @Produce json
// @Success 200 {array} domain.Item
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items [get]
func HandleListItems(itemRepo repository.Item) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		items, err := itemRepo.ListItems(r.Context())
		if err != nil {
			log.Error("Failed to list items", "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		if items == nil {
			items = []domain.Item{}
		}

		respondJSON(w, http.StatusOK, items)
	}
}

// HandleCreateItem creates one item; new items default to the crafted
// category when none is given
// @Summary Create item
// @Tags items
// @Accept json
// @Produce json
// @Success 201 {object} domain.Item
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/items [post]
func HandleCreateItem(itemRepo repository.Item, opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		category := domain.Category(req.Category)
		if req.Category == "" {
			category = domain.CategoryCrafted
		}

		item := &domain.Item{
			Name:     req.Name,
			Tier:     req.Tier,
			Category: category,
			ImageURL: req.ImageURL,
		}
		if err := itemRepo.CreateItem(r.Context(), item); err != nil {
			log.Error("Failed to create item", "name", req.Name, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		opt.InvalidateCatalog()

		log.Info("Item created", "id", item.ID, "name", item.Name)
		respondJSON(w, http.StatusCreated, item)
	}
}

// HandleInitItems bulk-seeds the catalog with name-keyed upserts
// @Summary Seed items
// @Tags items
// @Accept json
// @Produce json
// @Success 200 {object} InitItemsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/items/init [post]
func HandleInitItems(itemRepo repository.Item, opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req InitItemsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		items := make([]domain.Item, len(req.Items))
		for i, seed := range req.Items {
			items[i] = domain.Item{
				Name:         seed.Name,
				Tier:         seed.Tier,
				Category:     domain.Category(seed.Category),
				Description:  seed.Description,
				ImageURL:     seed.ImageURL,
				FarmingTime:  seed.FarmingTime,
				CraftingTime: seed.CraftingTime,
			}
			if seed.Rarity != nil {
				rarity := domain.Rarity(*seed.Rarity)
				items[i].Rarity = &rarity
			}
		}

		count, err := itemRepo.UpsertItems(r.Context(), items)
		if err != nil {
			log.Error("Failed to seed items", "error", err, "written", count)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		opt.InvalidateCatalog()

		log.Info("Items seeded", "count", count)
		respondJSON(w, http.StatusOK, InitItemsResponse{
			Success: true,
			Message: "items initialized",
			Count:   count,
		})
	}
}

// HandleDeleteItem removes an item together with its prices and recipe rows
// @Summary Delete item
// @Tags items
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{itemID} [delete]
func HandleDeleteItem(itemRepo repository.Item, opt optimizer.Service, cache *pricecache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")

		if err := itemRepo.DeleteItem(r.Context(), itemID); err != nil {
			log.Error("Failed to delete item", "itemID", itemID, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		opt.InvalidateCatalog()
		// Deleting an item cascades its price rows, so every cached city
		// snapshot may hold entries that no longer exist
		cache.Reset()

		log.Info("Item deleted", "itemID", itemID)
		respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
