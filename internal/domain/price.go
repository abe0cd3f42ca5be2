package domain

import "time"

// Price is the observed market price of an item in one city. Prices are
// strictly city-scoped: the same item may be priced differently in different
// cities, and one city's price never leaks into another's computations.
// Unique per (ItemID, CityName) with upsert semantics.
type Price struct {
	ID          string    `json:"id" db:"id"`
	ItemID      string    `json:"itemId" db:"item_id"`
	CityName    string    `json:"cityName" db:"city_name"`
	Price       float64   `json:"price" db:"price"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}
