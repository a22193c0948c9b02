package domain

// Intent is the classified purpose of a user query.
type Intent string

const (
	IntentFoodRequest   Intent = "food_request"
	IntentGreeting      Intent = "greeting"
	IntentFarewell      Intent = "farewell"
	IntentAboutBot      Intent = "about_bot"
	IntentAntiInjection Intent = "anti_injection"
	IntentOffTopic      Intent = "off_topic"
)

// Language distinguishes French queries from everything else. The bot only
// answers in French; non-French queries get a polite decline.
type Language string

const (
	LanguageFrench    Language = "fr"
	LanguageNonFrench Language = "non_fr"
)

// Slots holds the terms extracted from a query, grouped by kind.
type Slots struct {
	Dishes      []string
	Ingredients []string
	Methods     []string
	Occasions   []string
}

// ClassificationResult is the output of the classifier stage.
type ClassificationResult struct {
	Intent     Intent
	Language   Language
	Confidence float64
	Slots      Slots
}

// NeedType describes what kind of retrieval a query calls for.
type NeedType string

const (
	NeedRecipeByIngredients NeedType = "recipe_by_ingredients"
	NeedRecipeByName        NeedType = "recipe_by_name"
	NeedSuggestions         NeedType = "suggestions"
	NeedOffTopic            NeedType = "off_topic"
	NeedGreeting            NeedType = "greeting"
	NeedAboutBot            NeedType = "about_bot"
)

// QueryPlan is the structured retrieval plan derived from a classification.
type QueryPlan struct {
	NeedType       NeedType
	PrimaryDish    string
	Ingredients    []string
	Constraints    []string
	Language       Language
	RetrievalQuery string
	// LinkQuery drives article resolution; empty for intents that do not
	// target a specific article (greeting, about_bot, off_topic).
	LinkQuery string
}
