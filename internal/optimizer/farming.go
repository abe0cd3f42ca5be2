package optimizer

import (
	"sort"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

// priceFunc resolves an item's price in the target city. The second return
// is false when no price is recorded, which excludes or demotes the item
// rather than costing it at zero.
type priceFunc func(itemID string) (float64, bool)

// evaluateFarming converts each priced item's harvest time into a
// profit-per-hour figure and difficulty bucket, sorted most profitable
// first. Items without a price are excluded entirely. Unset or zero farming
// time counts as one minute, which yields a deliberately high rate instead
// of a division by zero; callers flag such entries visually.
func evaluateFarming(items []domain.Item, priceFor priceFunc) []domain.FarmingRecommendation {
	recommendations := make([]domain.FarmingRecommendation, 0, len(items))

	for i := range items {
		item := items[i]

		price, ok := priceFor(item.ID)
		if !ok {
			continue
		}

		minutes := effectiveFarmingTime(item.FarmingTime)
		profitPerHour := price / (minutes / 60)

		recommendations = append(recommendations, domain.FarmingRecommendation{
			Item:          item,
			ProfitPerHour: profitPerHour,
			FarmingTime:   minutes,
			Difficulty:    difficultyFromFarmingTime(minutes),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ProfitPerHour > recommendations[j].ProfitPerHour
	})

	return recommendations
}

// effectiveFarmingTime returns the harvest duration in minutes, treating
// unset or non-positive values as one minute
func effectiveFarmingTime(farmingTime *float64) float64 {
	if farmingTime == nil || *farmingTime <= 0 {
		return 1
	}
	return *farmingTime
}

func difficultyFromFarmingTime(minutes float64) domain.Difficulty {
	switch {
	case minutes <= 1:
		return domain.DifficultyEasy
	case minutes <= 3:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}
