package domain

import (
	"strconv"
	"time"
)

// Article is a recipe article from the editorial corpus (base 1).
// Articles are immutable after load; every resolvable URL in the system
// comes from one of these.
type Article struct {
	ArticleID       string
	Title           string
	NormalizedTitle string
	Slug            string
	URL             string
	Chef            string
	Author          string
	Section         string
	Tags            []string
	PublishDate     time.Time
	ModifiedDate    time.Time
	PopularityScore float64
	ShortSummary    string
	Description     string
	Anecdote        string
	Tips            []string
	IsEditorPick    bool
}

// LatestDate returns the most recent of the modified and publish dates.
// Used for recency ordering in fallback selection and duplicate-title
// resolution.
func (a Article) LatestDate() time.Time {
	if a.ModifiedDate.After(a.PublishDate) {
		return a.ModifiedDate
	}
	return a.PublishDate
}

// Ingredient is a structured recipe ingredient with an optional quantity.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
}

// Text renders the ingredient as human-readable French text.
func (i Ingredient) Text() string {
	switch {
	case i.Quantity > 0 && i.Unit != "":
		return formatQuantity(i.Quantity) + " " + i.Unit + " de " + i.Name
	case i.Quantity > 0:
		return formatQuantity(i.Quantity) + " " + i.Name
	default:
		return i.Name
	}
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// StructuredRecipe is a machine-readable recipe from the structured corpus
// (base 2). Unlike Articles these carry full ingredient lists and steps and
// may be shown in full to the user.
type StructuredRecipe struct {
	RecipeID       string
	Name           string
	NormalizedName string
	Category       string
	Ingredients    []Ingredient
	Steps          []string
	Servings       int
	PrepTime       string
	CookTime       string
	Difficulty     string
	Tags           []string
}

// GoldenExample is one curated query/response pair from the evaluation set.
type GoldenExample struct {
	ID             string
	Scenario       string
	Title          string
	UserQuery      string
	Response       string
	ExpectedIntent string
	ExpectedURL    string
}
