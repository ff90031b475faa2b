package reciparse

import (
	"context"
	"time"
)

// Unit is a measurement unit for ingredient quantities.
type Unit string

// Unit values.
const (
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitTeaspoon   Unit = "tsp"
	UnitTablespoon Unit = "tbsp"
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitPiece      Unit = "piece"
	UnitPinch      Unit = "pinch"
	UnitToTaste    Unit = "to_taste"
)

// Units lists the measurement vocabulary in schema order.
func Units() []Unit {
	return []Unit{
		UnitMilliliter, UnitLiter, UnitTeaspoon, UnitTablespoon,
		UnitGram, UnitKilogram,
		UnitPiece, UnitPinch, UnitToTaste,
	}
}

// Difficulty is how hard a recipe is to prepare.
type Difficulty string

// Difficulty values.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the difficulty vocabulary.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Category is the kind of dish.
type Category string

// Category values.
const (
	CategoryMainCourse   Category = "main_course"
	CategoryAppetizer    Category = "appetizer"
	CategorySideDish     Category = "side_dish"
	CategoryDessert      Category = "dessert"
	CategoryBreakfast    Category = "breakfast"
	CategoryBrunch       Category = "brunch"
	CategoryBread        Category = "bread"
	CategoryPastry       Category = "pastry"
	CategoryCake         Category = "cake"
	CategoryCookie       Category = "cookie"
	CategoryPie          Category = "pie"
	CategorySnack        Category = "snack"
	CategoryFingerFood   Category = "finger_food"
	CategoryDip          Category = "dip"
	CategorySauce        Category = "sauce"
	CategoryCondiment    Category = "condiment"
	CategoryBeverage     Category = "beverage"
	CategoryCocktail     Category = "cocktail"
	CategorySmoothie     Category = "smoothie"
	CategorySoup         Category = "soup"
	CategoryStew         Category = "stew"
	CategorySalad        Category = "salad"
	CategoryPreserve     Category = "preserve"
	CategorySandwich     Category = "sandwich"
	CategoryPasta        Category = "pasta"
	CategoryPizza        Category = "pizza"
	CategoryMealPrep     Category = "meal_prep"
	CategoryBatchCooking Category = "batch_cooking"
	CategoryOther        Category = "other"
)

// Categories lists the meal category vocabulary in schema order.
func Categories() []Category {
	return []Category{
		CategoryMainCourse, CategoryAppetizer, CategorySideDish, CategoryDessert,
		CategoryBreakfast, CategoryBrunch,
		CategoryBread, CategoryPastry, CategoryCake, CategoryCookie, CategoryPie,
		CategorySnack, CategoryFingerFood, CategoryDip, CategorySauce, CategoryCondiment,
		CategoryBeverage, CategoryCocktail, CategorySmoothie,
		CategorySoup, CategoryStew, CategorySalad,
		CategoryPreserve, CategorySandwich, CategoryPasta, CategoryPizza,
		CategoryMealPrep, CategoryBatchCooking,
		CategoryOther,
	}
}

// Recipe is a validated, structured recipe.
type Recipe struct {
	Title       string
	Description string
	Author      string
	CreatedAt   time.Time

	PrepTime   time.Duration
	CookTime   time.Duration
	TotalTime  time.Duration
	Servings   int
	Difficulty Difficulty

	Ingredients  []Ingredient
	Instructions []Step

	Tags     []string
	Cuisine  string      // optional
	Category Category    // optional
	Source   *Provenance // optional
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     Unit
	Notes    string // optional
}

// Step is one instruction. Order defines display sequence only; values
// are neither required to be unique nor contiguous.
type Step struct {
	Order       int
	Instruction string
	Time        time.Duration // optional, zero when unknown
	Note        string        // optional
}

// Provenance records where a recipe was published. Exactly one of the
// variants is set.
type Provenance struct {
	Web      *WebSource
	Book     *BookSource
	Magazine *MagazineSource
}

// WebSource is a recipe published on the web.
type WebSource struct {
	URL string
}

// BookSource is a recipe printed in a book.
type BookSource struct {
	Title  string
	Author string
	Page   int
	ISBN   string // optional
}

// MagazineSource is a recipe printed in a magazine.
type MagazineSource struct {
	Title string
	Issue string
	Page  int
}

// Validate returns an error if the recipe breaks a domain invariant.
// The returned error is a *SchemaViolation naming the offending field.
func (r *Recipe) Validate() error {
	return validateRecipe(r)
}

// RecipeStore persists validated recipes.
type RecipeStore interface {
	// SaveRecipe writes the recipe and returns where it was stored.
	// Nothing is left behind when an error is returned.
	SaveRecipe(ctx context.Context, r *Recipe) (string, error)
}
