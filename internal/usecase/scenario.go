package usecase

import (
	"sahtein/internal/domain"
)

// Editorial scenarios. Each carries a fixed policy: which corpus feeds the
// answer, whether the full recipe may be shown, and whether a link is
// mandatory.
var scenarios = map[int]domain.ScenarioContext{
	1: {
		ScenarioID:      1,
		ScenarioName:    "olj_recipe_available",
		UseBase:         domain.UseBaseArticles,
		ShowFullContent: false,
		IncludeLink:     true,
	},
	2: {
		ScenarioID:      2,
		ScenarioName:    "base2_recipe_with_olj_suggestion",
		UseBase:         domain.UseBaseRecipes,
		ShowFullContent: true,
		IncludeLink:     true,
	},
	3: {
		ScenarioID:      3,
		ScenarioName:    "no_match_with_fallback",
		UseBase:         domain.UseBaseNone,
		ShowFullContent: false,
		IncludeLink:     true,
	},
	4: {
		ScenarioID:      4,
		ScenarioName:    "greeting",
		UseBase:         domain.UseBaseNone,
		ShowFullContent: false,
		IncludeLink:     true,
	},
	5: {
		ScenarioID:      5,
		ScenarioName:    "about_bot",
		UseBase:         domain.UseBaseNone,
		ShowFullContent: false,
		IncludeLink:     true,
	},
	6: {
		ScenarioID:      6,
		ScenarioName:    "off_topic_redirect",
		UseBase:         domain.UseBaseNone,
		ShowFullContent: false,
		IncludeLink:     true,
	},
	7: {
		ScenarioID:      7,
		ScenarioName:    "non_french_polite_decline",
		UseBase:         domain.UseBaseNone,
		ShowFullContent: false,
		IncludeLink:     false,
	},
	8: {
		ScenarioID:      8,
		ScenarioName:    "ingredient_suggestions",
		UseBase:         domain.UseBaseMixed,
		ShowFullContent: false,
		IncludeLink:     true,
	},
}

// ScenarioAligner maps upstream signals to exactly one editorial scenario.
// Align is a pure function: same inputs, same scenario.
type ScenarioAligner struct{}

// NewScenarioAligner returns an aligner.
func NewScenarioAligner() *ScenarioAligner {
	return &ScenarioAligner{}
}

// Align walks the decision tree in fixed order, first match wins:
// language, then conversational intents, then the food-request ladder from
// strong article link down to fallback.
func (a *ScenarioAligner) Align(
	classification domain.ClassificationResult,
	plan domain.QueryPlan,
	link domain.LinkResolutionResult,
	candidates []domain.RetrievalCandidate,
) domain.ScenarioContext {
	if classification.Language == domain.LanguageNonFrench {
		return ScenarioByID(7)
	}

	switch classification.Intent {
	case domain.IntentGreeting, domain.IntentFarewell:
		return ScenarioByID(4)
	case domain.IntentAboutBot:
		return ScenarioByID(5)
	case domain.IntentOffTopic, domain.IntentAntiInjection:
		return ScenarioByID(6)
	}

	if classification.Intent == domain.IntentFoodRequest {
		if link.PrimaryArticle != nil && link.Confidence > 0.6 {
			return ScenarioByID(1)
		}

		if best, ok := bestRecipeCandidate(candidates); ok && best.Score > 0.4 {
			return ScenarioByID(2)
		}

		if plan.NeedType == domain.NeedRecipeByIngredients && len(plan.Ingredients) > 1 {
			return ScenarioByID(8)
		}

		return ScenarioByID(3)
	}

	return ScenarioByID(3)
}

func bestRecipeCandidate(candidates []domain.RetrievalCandidate) (domain.RetrievalCandidate, bool) {
	for _, c := range candidates {
		if c.Source == domain.SourceRecipes {
			return c, true
		}
	}
	return domain.RetrievalCandidate{}, false
}

// ScenarioByID returns the policy for a scenario id; unknown ids fall back
// to the no-match policy.
func ScenarioByID(id int) domain.ScenarioContext {
	if ctx, ok := scenarios[id]; ok {
		return ctx
	}
	return scenarios[3]
}
