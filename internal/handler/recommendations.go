package handler

import (
	"net/http"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/optimizer"
)

// HandleFarmingRecommendations ranks farmable items by profit per hour for
// the city given in the query string
// @Summary Farming recommendations
// @Tags recommendations
// @Produce json
// @Param city query string true "City name"
// @Success 200 {array} domain.FarmingRecommendation
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/recommendations/farming [get]
func HandleFarmingRecommendations(opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		cityName := r.URL.Query().Get("city")

		recs, err := opt.FarmingRecommendations(r.Context(), cityName)
		if err != nil {
			log.Error("Failed to compute farming recommendations", "city", cityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		if recs == nil {
			recs = []domain.FarmingRecommendation{}
		}

		respondJSON(w, http.StatusOK, recs)
	}
}

// HandleCraftingRecommendations ranks craftable items by the buy-and-craft
// heuristic for the city given in the query string
// @Summary Crafting recommendations
// @Tags recommendations
// @Produce json
// @Param city query string true "City name"
// @Success 200 {array} domain.CraftingRecommendation
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/recommendations/crafting [get]
func HandleCraftingRecommendations(opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		cityName := r.URL.Query().Get("city")

		recs, err := opt.CraftingRecommendations(r.Context(), cityName)
		if err != nil {
			log.Error("Failed to compute crafting recommendations", "city", cityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		if recs == nil {
			recs = []domain.CraftingRecommendation{}
		}

		respondJSON(w, http.StatusOK, recs)
	}
}

// HandleOptimizationSummary combines both evaluators and picks the single
// best option of each kind
// @Summary Optimization summary
// @Tags recommendations
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} domain.OptimizationSummary
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/recommendations/summary [get]
func HandleOptimizationSummary(opt optimizer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		cityName := r.URL.Query().Get("city")

		summary, err := opt.Summary(r.Context(), cityName)
		if err != nil {
			log.Error("Failed to compute optimization summary", "city", cityName, "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, summary)
	}
}
