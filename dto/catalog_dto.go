package dto

// TagRequest represents the payload for creating a tag
type TagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor,len=7"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

// TagUpdateRequest represents a partial tag update
type TagUpdateRequest struct {
	Name  *string `json:"name" binding:"omitnil,min=1,max=200"`
	Color *string `json:"color" binding:"omitnil,hexcolor,len=7"`
	Slug  *string `json:"slug" binding:"omitnil,min=1,max=200,slug"`
}

// IngredientRequest represents the payload for creating an ingredient
type IngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=30"`
}

// IngredientUpdateRequest represents a partial ingredient update
type IngredientUpdateRequest struct {
	Name            *string `json:"name" binding:"omitnil,min=1,max=200"`
	MeasurementUnit *string `json:"measurement_unit" binding:"omitnil,min=1,max=30"`
}
