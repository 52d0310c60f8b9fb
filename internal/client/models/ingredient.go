// Package models defines the domain types shared by the gateway, the
// state machines and the presentation layer.
package models

// IngredientType classifies an ingredient.
type IngredientType string

const (
	IngredientTypeBun   IngredientType = "bun"
	IngredientTypeSauce IngredientType = "sauce"
	IngredientTypeMain  IngredientType = "main"
)

// Ingredient is a catalogue item as returned by the remote API.
type Ingredient struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Type          IngredientType `json:"type"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Price         int            `json:"price"`
	Image         string         `json:"image"`
	ImageMobile   string         `json:"image_mobile"`
	ImageLarge    string         `json:"image_large"`
}

// IsBun reports whether the ingredient occupies the bun slot.
func (i Ingredient) IsBun() bool {
	return i.Type == IngredientTypeBun
}

// ConstructionEntry is an ingredient placed into the burger under
// construction. InstanceID distinguishes repeated uses of the same
// ingredient.
type ConstructionEntry struct {
	Ingredient
	InstanceID string `json:"id"`
}
