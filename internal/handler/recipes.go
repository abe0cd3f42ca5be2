package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/optimizer"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

// SetRecipeRequest replaces the item's recipe. Outputs may be omitted, in
// which case the recipe yields one unit of the item itself.
type SetRecipeRequest struct {
	Materials []RecipeLineRequest `json:"materials" validate:"required,min=1,dive"`
	Outputs   []RecipeLineRequest `json:"outputs" validate:"omitempty,dive"`
}

// RecipeLineRequest is one material or output line
type RecipeLineRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// HandleGetRecipe returns the recipe for an item, or 404 when it has none
// @Summary Get item recipe
// @Tags recipes
// @Produce json
// @Success 200 {object} domain.Recipe
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{itemID}/recipe [get]
func HandleGetRecipe(itemRepo repository.Item, recipeRepo repository.Recipe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")

		if _, err := itemRepo.GetItemByID(r.Context(), itemID); err != nil {
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		recipe, err := recipeRepo.GetRecipeForItem(r.Context(), itemID)
		if err != nil {
			log.Error("Failed to get recipe", "item_id", itemID, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		if recipe == nil {
			respondError(w, http.StatusNotFound, ErrMsgRecipeNotFound)
			return
		}

		respondJSON(w, http.StatusOK, recipe)
	}
}

// HandleSetRecipe replaces an item's recipe and drops the catalog snapshot
// so the next recommendation run sees it
// @Summary Set item recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Success 200 {object} domain.Recipe
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{itemID}/recipe [put]
func HandleSetRecipe(itemRepo repository.Item, recipeRepo repository.Recipe, opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")

		var req SetRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		if _, err := itemRepo.GetItemByID(r.Context(), itemID); err != nil {
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		recipe := domain.Recipe{
			Materials: make([]domain.RecipeMaterial, 0, len(req.Materials)),
			Outputs:   make([]domain.RecipeOutput, 0, len(req.Outputs)),
		}
		for _, m := range req.Materials {
			recipe.Materials = append(recipe.Materials, domain.RecipeMaterial{ItemID: m.ItemID, Quantity: m.Quantity})
		}
		for _, o := range req.Outputs {
			recipe.Outputs = append(recipe.Outputs, domain.RecipeOutput{ItemID: o.ItemID, Quantity: o.Quantity})
		}
		recipe.Normalize(itemID)

		if err := recipeRepo.SetRecipe(r.Context(), itemID, recipe); err != nil {
			log.Error("Failed to set recipe", "item_id", itemID, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		opt.InvalidateCatalog()

		log.Info("Recipe set", "item_id", itemID, "materials", len(recipe.Materials), "outputs", len(recipe.Outputs))
		respondJSON(w, http.StatusOK, recipe)
	}
}

// HandleDeleteRecipe removes an item's recipe, making it non-craftable
// @Summary Delete item recipe
// @Tags recipes
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{itemID}/recipe [delete]
func HandleDeleteRecipe(itemRepo repository.Item, recipeRepo repository.Recipe, opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")

		if _, err := itemRepo.GetItemByID(r.Context(), itemID); err != nil {
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		if err := recipeRepo.DeleteRecipe(r.Context(), itemID); err != nil {
			log.Error("Failed to delete recipe", "item_id", itemID, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		opt.InvalidateCatalog()

		log.Info("Recipe deleted", "item_id", itemID)
		respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
