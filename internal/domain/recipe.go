package domain

// RecipeMaterial is a single material requirement for a recipe
type RecipeMaterial struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// RecipeOutput is a single item produced per craft. A recipe may produce
// items other than its owner (byproducts).
type RecipeOutput struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Recipe describes one level of crafting for an item: the materials consumed
// per craft and the outputs produced. Outputs is always populated for a
// craftable item; when a recipe declares none, it defaults to one unit of the
// owning item (see Normalize).
type Recipe struct {
	Materials []RecipeMaterial `json:"materials"`
	Outputs   []RecipeOutput   `json:"outputs"`
}

// Normalize fills in the default output (one unit of the owning item) when a
// recipe declares no outputs. Called at load time so evaluators never see a
// nil or empty Outputs list on a craftable item.
func (r *Recipe) Normalize(ownerItemID string) {
	if len(r.Outputs) == 0 {
		r.Outputs = []RecipeOutput{{ItemID: ownerItemID, Quantity: 1}}
	}
}
