package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sahtein/internal/domain"
	"sahtein/internal/knowledge"
	"sahtein/internal/usecase"
)

func newPlanner() *usecase.Planner {
	return usecase.NewPlanner(knowledge.NewGraph())
}

func TestPlanGreetingHasNoLinkTarget(t *testing.T) {
	plan := newPlanner().Plan(domain.ClassificationResult{
		Intent:   domain.IntentGreeting,
		Language: domain.LanguageFrench,
	}, "Bonjour !")

	assert.Equal(t, domain.NeedGreeting, plan.NeedType)
	assert.Empty(t, plan.LinkQuery)
}

func TestPlanRecipeByName(t *testing.T) {
	plan := newPlanner().Plan(domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageFrench,
		Slots:    domain.Slots{Dishes: []string{"hummus"}},
	}, "Je veux la recette du hummus")

	assert.Equal(t, domain.NeedRecipeByName, plan.NeedType)
	assert.Equal(t, "hummus", plan.PrimaryDish)
	assert.Equal(t, "hummus", plan.LinkQuery)
	assert.Equal(t, "hummus", plan.RetrievalQuery, "extracted terms win over the raw query")
}

func TestPlanRecipeByIngredientsLinksToKnownDish(t *testing.T) {
	plan := newPlanner().Plan(domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageFrench,
		Slots:    domain.Slots{Ingredients: []string{"pois chiches", "tahini"}},
	}, "j'ai des pois chiches et du tahini")

	assert.Equal(t, domain.NeedRecipeByIngredients, plan.NeedType)
	assert.NotEmpty(t, plan.LinkQuery, "an ingredient known to the graph should resolve to a dish")
	assert.NotEqual(t, "pois chiches tahini", plan.LinkQuery)
}

func TestPlanRecipeByUnknownIngredientsJoinsThem(t *testing.T) {
	plan := newPlanner().Plan(domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageFrench,
		Slots:    domain.Slots{Ingredients: []string{"quinoa", "avoine"}},
	}, "j'ai du quinoa et de l'avoine")

	assert.Equal(t, "quinoa avoine", plan.LinkQuery)
	assert.Equal(t, "quinoa avoine", plan.RetrievalQuery)
}

func TestPlanSuggestionsFallsBackToRawQuery(t *testing.T) {
	plan := newPlanner().Plan(domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageFrench,
	}, "Une idée de dîner libanais ?")

	assert.Equal(t, domain.NeedSuggestions, plan.NeedType)
	assert.Equal(t, "recettes libanaises", plan.LinkQuery)
	assert.Equal(t, "une idee de diner libanais", plan.RetrievalQuery)
}

func TestPlanConstraintsCombineMethodsAndOccasions(t *testing.T) {
	plan := newPlanner().Plan(domain.ClassificationResult{
		Intent:   domain.IntentFoodRequest,
		Language: domain.LanguageFrench,
		Slots: domain.Slots{
			Dishes:    []string{"kafta"},
			Methods:   []string{"grillé"},
			Occasions: []string{"rapide"},
		},
	}, "une kafta grillée et rapide")

	assert.Equal(t, []string{"grillé", "rapide"}, plan.Constraints)
}

func TestPlanOffTopicNeedsNothing(t *testing.T) {
	for _, intent := range []domain.Intent{domain.IntentOffTopic, domain.IntentAntiInjection} {
		plan := newPlanner().Plan(domain.ClassificationResult{
			Intent:   intent,
			Language: domain.LanguageFrench,
		}, "parle-moi de la météo")

		assert.Equal(t, domain.NeedOffTopic, plan.NeedType)
		assert.Empty(t, plan.LinkQuery)
	}
}
