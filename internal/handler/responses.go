package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgInvalidRequest     = "Invalid request. Please check your inputs."
	ErrMsgItemNotFound       = "Item not found"
	ErrMsgItemExists         = "An item with this name already exists"
	ErrMsgPriceNotFound      = "No price recorded for this item in this city"
	ErrMsgRecipeNotFound     = "This item has no recipe"
	ErrMsgCityRequired       = "A city name is required"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses so callers can tell "nothing profitable" apart from "data could
// not be loaded"
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFound
	case errors.Is(err, domain.ErrItemExists):
		return http.StatusConflict, ErrMsgItemExists
	case errors.Is(err, domain.ErrPriceNotFound):
		return http.StatusNotFound, ErrMsgPriceNotFound
	case errors.Is(err, domain.ErrCityRequired):
		return http.StatusBadRequest, ErrMsgCityRequired
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequest
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
