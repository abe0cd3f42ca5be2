package domain

// Difficulty buckets a resource by how long one harvest takes
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// FarmingRecommendation ranks a priced item by expected coin yield per hour
// of harvesting. Derived per request, never persisted.
type FarmingRecommendation struct {
	Item          Item       `json:"item"`
	ProfitPerHour float64    `json:"profitPerHour"`
	FarmingTime   float64    `json:"farmingTime"`
	Difficulty    Difficulty `json:"difficulty"`
}

// CraftingMaterial is a recipe material with its cost resolved against one
// city's prices.
type CraftingMaterial struct {
	Item     Item    `json:"item"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// CraftingRecommendation is the evaluated profitability of crafting one item
// and reselling it at SuggestedPrice. Estimated marks recommendations whose
// material costs used the price=1 floor substitute for unpriced materials.
// Derived per request, never persisted.
type CraftingRecommendation struct {
	Item           Item               `json:"item"`
	Materials      []CraftingMaterial `json:"materials"`
	CraftingCost   float64            `json:"craftingCost"`
	ProfitPerCraft float64            `json:"profitPerCraft"`
	ProfitMargin   float64            `json:"profitMargin"`
	SuggestedPrice float64            `json:"suggestedPrice"`
	Estimated      bool               `json:"estimated"`
}

// OptimizationSummary is the dashboard view over one city's snapshot
type OptimizationSummary struct {
	TotalItems               int                     `json:"totalItems"`
	FarmableCount            int                     `json:"farmableItems"`
	CraftableCount           int                     `json:"craftableItems"`
	FarmingRecommendations   int                     `json:"farmingRecommendations"`
	CraftingRecommendations  int                     `json:"craftingRecommendations"`
	BestFarming              *FarmingRecommendation  `json:"bestFarming"`
	BestCrafting             *CraftingRecommendation `json:"bestCrafting"`
}
