package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgItemNotFound  = "item not found"
	ErrMsgItemExists    = "an item with this name already exists"
	ErrMsgPriceNotFound = "price not found"
	ErrMsgCityRequired  = "city name is required"
	ErrMsgInvalidInput  = "invalid input"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	ErrItemNotFound  = errors.New(ErrMsgItemNotFound)
	ErrItemExists    = errors.New(ErrMsgItemExists)
	ErrPriceNotFound = errors.New(ErrMsgPriceNotFound)
	ErrCityRequired  = errors.New(ErrMsgCityRequired)
	ErrInvalidInput  = errors.New(ErrMsgInvalidInput)
)
