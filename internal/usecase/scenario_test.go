package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sahtein/internal/domain"
	"sahtein/internal/usecase"
)

func alignerFoodClassification() domain.ClassificationResult {
	return domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageFrench,
	}
}

func TestAlignNonFrenchWinsOverEverything(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageNonFrench,
	}, domain.QueryPlan{}, domain.LinkResolutionResult{
		PrimaryArticle: &domain.Article{ArticleID: "a1"},
		Confidence:     1.0,
	}, nil)

	assert.Equal(t, 7, scenario.ScenarioID)
	assert.Equal(t, "non_french_polite_decline", scenario.ScenarioName)
	assert.False(t, scenario.IncludeLink)
}

func TestAlignConversationalIntents(t *testing.T) {
	a := usecase.NewScenarioAligner()

	cases := []struct {
		intent domain.Intent
		want   int
	}{
		{domain.IntentGreeting, 4},
		{domain.IntentFarewell, 4},
		{domain.IntentAboutBot, 5},
		{domain.IntentOffTopic, 6},
		{domain.IntentAntiInjection, 6},
	}
	for _, tc := range cases {
		scenario := a.Align(domain.ClassificationResult{
			Intent:   tc.intent,
			Language: domain.LanguageFrench,
		}, domain.QueryPlan{}, domain.LinkResolutionResult{}, nil)
		assert.Equal(t, tc.want, scenario.ScenarioID, "intent %s", tc.intent)
	}
}

func TestAlignConfidentArticleLink(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(alignerFoodClassification(), domain.QueryPlan{
		NeedType: domain.NeedRecipeByName,
	}, domain.LinkResolutionResult{
		PrimaryArticle: &domain.Article{ArticleID: "a1"},
		Confidence:     0.8,
	}, nil)

	assert.Equal(t, 1, scenario.ScenarioID)
	assert.Equal(t, "olj_recipe_available", scenario.ScenarioName)
	assert.Equal(t, domain.UseBaseArticles, scenario.UseBase)
	assert.False(t, scenario.ShowFullContent, "articles are never disclosed in full")
	assert.True(t, scenario.IncludeLink)
}

func TestAlignLowConfidenceLinkFallsThroughToRecipe(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(alignerFoodClassification(), domain.QueryPlan{
		NeedType: domain.NeedRecipeByName,
	}, domain.LinkResolutionResult{
		PrimaryArticle: &domain.Article{ArticleID: "a1"},
		Confidence:     0.5,
	}, []domain.RetrievalCandidate{
		{Source: domain.SourceRecipes, RecipeID: "r1", Score: 0.6},
	})

	assert.Equal(t, 2, scenario.ScenarioID)
	assert.Equal(t, "base2_recipe_with_olj_suggestion", scenario.ScenarioName)
	assert.Equal(t, domain.UseBaseRecipes, scenario.UseBase)
	assert.True(t, scenario.ShowFullContent, "structured recipes may be shown in full")
}

func TestAlignRecipeCandidateWithoutArticle(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(alignerFoodClassification(), domain.QueryPlan{
		NeedType: domain.NeedRecipeByName,
	}, domain.LinkResolutionResult{}, []domain.RetrievalCandidate{
		{Source: domain.SourceRecipes, RecipeID: "r1", Score: 0.5},
	})

	assert.Equal(t, 2, scenario.ScenarioID)
}

func TestAlignIngredientSuggestions(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(alignerFoodClassification(), domain.QueryPlan{
		NeedType:    domain.NeedRecipeByIngredients,
		Ingredients: []string{"pois chiches", "tahini"},
	}, domain.LinkResolutionResult{}, []domain.RetrievalCandidate{
		{Source: domain.SourceRecipes, RecipeID: "r1", Score: 0.3},
	})

	assert.Equal(t, 8, scenario.ScenarioID)
	assert.Equal(t, "ingredient_suggestions", scenario.ScenarioName)
	assert.Equal(t, domain.UseBaseMixed, scenario.UseBase)
}

func TestAlignSingleIngredientIsNotEnough(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(alignerFoodClassification(), domain.QueryPlan{
		NeedType:    domain.NeedRecipeByIngredients,
		Ingredients: []string{"pois chiches"},
	}, domain.LinkResolutionResult{}, nil)

	assert.Equal(t, 3, scenario.ScenarioID)
	assert.Equal(t, "no_match_with_fallback", scenario.ScenarioName)
}

func TestAlignDefaultsToNoMatch(t *testing.T) {
	a := usecase.NewScenarioAligner()

	scenario := a.Align(alignerFoodClassification(), domain.QueryPlan{
		NeedType: domain.NeedSuggestions,
	}, domain.LinkResolutionResult{}, nil)

	assert.Equal(t, 3, scenario.ScenarioID)
}

func TestAlignIsDeterministic(t *testing.T) {
	a := usecase.NewScenarioAligner()

	classification := alignerFoodClassification()
	plan := domain.QueryPlan{NeedType: domain.NeedRecipeByName}
	link := domain.LinkResolutionResult{
		PrimaryArticle: &domain.Article{ArticleID: "a1"},
		Confidence:     0.9,
	}

	first := a.Align(classification, plan, link, nil)
	second := a.Align(classification, plan, link, nil)
	assert.Equal(t, first, second)
}

func TestScenarioByIDUnknownFallsBack(t *testing.T) {
	assert.Equal(t, 3, usecase.ScenarioByID(42).ScenarioID)
	assert.Equal(t, 3, usecase.ScenarioByID(0).ScenarioID)
}

func TestScenarioPolicies(t *testing.T) {
	for id := 1; id <= 8; id++ {
		scenario := usecase.ScenarioByID(id)
		assert.Equal(t, id, scenario.ScenarioID)
		if id == 2 {
			assert.True(t, scenario.ShowFullContent)
		} else {
			assert.False(t, scenario.ShowFullContent, "scenario %d", id)
		}
		if id == 7 {
			assert.False(t, scenario.IncludeLink)
		} else {
			assert.True(t, scenario.IncludeLink, "scenario %d", id)
		}
	}
}
