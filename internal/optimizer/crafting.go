package optimizer

import (
	"math"
	"sort"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

const (
	// marginCap bounds the suggested price at 20% over material cost
	marginCap = 1.2
	// undercutRatio prices crafted goods under the current market listing
	undercutRatio = 0.9
	// highMarginThreshold splits each bucket into quick-turnover and
	// margin-ranked halves
	highMarginThreshold = 20.0
	// estimatedPriceFloor substitutes for a missing material price in the
	// estimated (low confidence) costing pass
	estimatedPriceFloor = 1.0
)

// evaluateCrafting decides, for every item carrying a non-empty materials
// list, whether crafting it and reselling is profitable and at what
// suggested price. Results come back in three tiers: strict-cost
// recommendations first, then estimated-cost ones, then degenerate entries
// whose suggested price is exactly 1.
func evaluateCrafting(items []domain.Item, priceFor priceFunc) []domain.CraftingRecommendation {
	byID := make(map[string]*domain.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	var strictTier, estimatedTier, degenerateTier []domain.CraftingRecommendation

	for i := range items {
		item := items[i]
		if !item.Craftable() {
			continue
		}

		materials, estimated := resolveMaterials(item.Recipe.Materials, byID, priceFor)
		if len(materials) == 0 {
			// No referenced material exists in the snapshot
			continue
		}

		totalCost := 0.0
		for _, m := range materials {
			totalCost += m.Cost
		}

		suggested := suggestPrice(item.Recipe.Outputs, totalCost, priceFor)

		totalRevenue := 0.0
		for _, out := range item.Recipe.Outputs {
			totalRevenue += suggested * float64(out.Quantity)
		}

		profit := totalRevenue - totalCost
		margin := 0.0
		if totalCost > 0 {
			margin = profit / totalCost * 100
		}

		rec := domain.CraftingRecommendation{
			Item:           item,
			Materials:      materials,
			CraftingCost:   totalCost,
			ProfitPerCraft: profit,
			ProfitMargin:   margin,
			SuggestedPrice: suggested,
			Estimated:      estimated,
		}

		switch {
		case suggested == 1:
			degenerateTier = append(degenerateTier, rec)
		case estimated:
			estimatedTier = append(estimatedTier, rec)
		default:
			strictTier = append(strictTier, rec)
		}
	}

	sortTier(strictTier)
	sortTier(estimatedTier)
	sortTier(degenerateTier)

	out := make([]domain.CraftingRecommendation, 0, len(strictTier)+len(estimatedTier)+len(degenerateTier))
	out = append(out, strictTier...)
	out = append(out, estimatedTier...)
	out = append(out, degenerateTier...)
	return out
}

// resolveMaterials costs a recipe's materials against the city's prices.
// The strict pass requires every material to exist and be priced; when it
// fails, the estimated pass substitutes estimatedPriceFloor for missing
// prices so a cost figure still exists, marked low-confidence. Materials
// whose item no longer exists in the snapshot are skipped line-item-wise in
// both passes.
func resolveMaterials(materials []domain.RecipeMaterial, byID map[string]*domain.Item, priceFor priceFunc) ([]domain.CraftingMaterial, bool) {
	strict := make([]domain.CraftingMaterial, 0, len(materials))
	for _, mat := range materials {
		item, ok := byID[mat.ItemID]
		if !ok {
			continue
		}
		price, ok := priceFor(mat.ItemID)
		if !ok {
			strict = nil
			break
		}
		strict = append(strict, domain.CraftingMaterial{
			Item:     *item,
			Quantity: mat.Quantity,
			Cost:     price * float64(mat.Quantity),
		})
	}
	if len(strict) == len(materials) && len(strict) > 0 {
		return strict, false
	}

	estimated := make([]domain.CraftingMaterial, 0, len(materials))
	for _, mat := range materials {
		item, ok := byID[mat.ItemID]
		if !ok {
			continue
		}
		price, ok := priceFor(mat.ItemID)
		if !ok {
			price = estimatedPriceFloor
		}
		estimated = append(estimated, domain.CraftingMaterial{
			Item:     *item,
			Quantity: mat.Quantity,
			Cost:     price * float64(mat.Quantity),
		})
	}
	return estimated, true
}

// suggestPrice derives the listing price for a craft with total material
// cost totalCost. Each priced output produces an undercut of the current
// market price, clamped to strictly undercut and capped at 20% over cost;
// outputs are visited in declaration order and the last priced one wins.
// When no output is priced at all, the cap spread over the first output's
// quantity is used instead.
func suggestPrice(outputs []domain.RecipeOutput, totalCost float64, priceFor priceFunc) float64 {
	maxPriceWithMargin := math.Ceil(totalCost * marginCap)

	suggested := 0.0
	priced := false
	for _, out := range outputs {
		market, ok := priceFor(out.ItemID)
		if !ok {
			continue
		}
		undercut := math.Ceil(market * undercutRatio)
		if undercut >= market {
			// Rounding can erase the undercut on small prices
			undercut = market - 1
		}
		suggested = math.Min(undercut, maxPriceWithMargin)
		priced = true
	}
	if !priced {
		suggested = math.Ceil(maxPriceWithMargin / float64(outputs[0].Quantity))
	}
	return suggested
}

// sortTier orders a bucket: high-margin entries first, cheapest listing
// first among them (favors quick turnover), then everything else by
// descending margin
func sortTier(tier []domain.CraftingRecommendation) {
	sort.SliceStable(tier, func(i, j int) bool {
		hi := tier[i].ProfitMargin >= highMarginThreshold
		hj := tier[j].ProfitMargin >= highMarginThreshold
		if hi != hj {
			return hi
		}
		if hi {
			return tier[i].SuggestedPrice < tier[j].SuggestedPrice
		}
		return tier[i].ProfitMargin > tier[j].ProfitMargin
	})
}
