package domain

// Category classifies what an item is used for in the game
type Category string

const (
	CategoryResource  Category = "resource"
	CategoryCrafted   Category = "crafted"
	CategoryTool      Category = "tool"
	CategoryEquipment Category = "equipment"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryResource, CategoryCrafted, CategoryTool, CategoryEquipment:
		return true
	}
	return false
}

// Rarity represents the visual rarity of an item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Item represents a BitCraft item. FarmingTime and CraftingTime are in
// minutes; FarmingTime is only meaningful for resource items. Items are
// immutable once loaded into a snapshot.
type Item struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Tier         int      `json:"tier" db:"tier"`
	Category     Category `json:"type" db:"category"`
	Description  string   `json:"description,omitempty" db:"description"`
	Rarity       *Rarity  `json:"rarity,omitempty" db:"rarity"`
	ImageURL     *string  `json:"imageUrl,omitempty" db:"image_url"`
	FarmingTime  *float64 `json:"farmingTime,omitempty" db:"farming_time"`
	CraftingTime *float64 `json:"craftingTime,omitempty" db:"crafting_time"`
	Recipe       *Recipe  `json:"recipe,omitempty"`
}

// Craftable reports whether the item carries a recipe with at least one
// material. Items with an empty materials list are treated as non-craftable.
func (i *Item) Craftable() bool {
	return i.Recipe != nil && len(i.Recipe.Materials) > 0
}
