package model

// MacroTargets are the daily nutrition targets attached to a generated plan.
type MacroTargets struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Ingredient is one line of a recipe.
type Ingredient struct {
	EstimatedPrice *float64 `json:"estimatedPrice,omitempty"`
	Name           string   `json:"name"`
	Unit           string   `json:"unit"`
	Amount         float64  `json:"amount"`
}

// MealRecipe is a recipe chosen by the meal-plan generator.
type MealRecipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	MealType    string       `json:"mealType"`
	Ingredients []Ingredient `json:"ingredients"`
}

// MealPlan is the structured output of the external meal-plan generator.
// Only the recipe and ingredient lists are consumed here.
type MealPlan struct {
	ID            string       `json:"id"`
	Recipes       []MealRecipe `json:"recipes"`
	MacroTargets  MacroTargets `json:"macroTargets"`
	RecipesNeeded int          `json:"recipesNeeded"`
	DurationDays  int          `json:"durationDays"`
}
