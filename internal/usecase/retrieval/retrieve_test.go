package retrieval_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahtein/internal/domain"
	"sahtein/internal/index"
	"sahtein/internal/normalize"
	"sahtein/internal/usecase/retrieval"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildIndex(t *testing.T) *index.ContentIndex {
	t.Helper()

	ix := index.NewContentIndex(index.ContentIndexConfig{MaxFeatures: 5000}, normalize.NewIngredientExpander())
	ix.AddArticles([]domain.Article{
		{
			ArticleID: "a1",
			Title:     "Le hummus de Beyrouth",
			URL:       "https://www.lorientlejour.com/article/100-hummus.html",
			Tags:      []string{"mezze", "libanais"},
		},
		{
			ArticleID: "a2",
			Title:     "Kofta grillée végétarienne aux légumes",
			URL:       "https://www.lorientlejour.com/article/200-kofta.html",
			Tags:      []string{"viande"},
		},
	})
	ix.AddRecipes([]domain.StructuredRecipe{
		{
			RecipeID: "r1",
			Name:     "Hummus bi tahini",
			Ingredients: []domain.Ingredient{
				{Name: "pois chiches"}, {Name: "tahini"}, {Name: "citron"},
			},
		},
		{
			RecipeID: "r2",
			Name:     "Soupe de lentilles au citron",
			Ingredients: []domain.Ingredient{
				{Name: "lentilles"}, {Name: "citron"},
			},
		},
	})
	require.NoError(t, ix.Build())
	return ix
}

func newRetriever(t *testing.T) *retrieval.Retriever {
	t.Helper()
	return retrieval.NewRetriever(buildIndex(t), 10, discardLogger())
}

func TestRetrieveConversationalNeedsNothing(t *testing.T) {
	r := newRetriever(t)

	for _, need := range []domain.NeedType{domain.NeedGreeting, domain.NeedAboutBot, domain.NeedOffTopic} {
		assert.Nil(t, r.Retrieve(domain.QueryPlan{NeedType: need, RetrievalQuery: "hummus"}))
	}
}

func TestRetrieveByName(t *testing.T) {
	r := newRetriever(t)

	candidates := r.Retrieve(domain.QueryPlan{
		NeedType:       domain.NeedRecipeByName,
		PrimaryDish:    "hummus",
		RetrievalQuery: "recette hummus",
	})
	require.NotEmpty(t, candidates)
	assert.Contains(t, []string{"olj_a1", "base2_r1"}, candidates[0].Key())
}

func TestRetrieveByIngredientsPrefersRecipes(t *testing.T) {
	r := newRetriever(t)

	candidates := r.Retrieve(domain.QueryPlan{
		NeedType:       domain.NeedRecipeByIngredients,
		Ingredients:    []string{"pois chiches", "tahini"},
		RetrievalQuery: "pois chiches tahini",
	})
	require.NotEmpty(t, candidates)
	assert.Equal(t, domain.SourceRecipes, candidates[0].Source)
	assert.Equal(t, "r1", candidates[0].RecipeID)
}

func TestRetrieveSuggestions(t *testing.T) {
	r := newRetriever(t)

	candidates := r.Retrieve(domain.QueryPlan{
		NeedType:       domain.NeedSuggestions,
		RetrievalQuery: "citron",
	})
	assert.NotEmpty(t, candidates)
}

func TestFilterByConstraintsKeepsEverything(t *testing.T) {
	r := newRetriever(t)

	candidates := []domain.RetrievalCandidate{
		{Source: domain.SourceArticles, ArticleID: "a1", Content: "hummus beyrouth", Score: 1.0},
		{Source: domain.SourceArticles, ArticleID: "a2", Content: "kofta grillee vegetarienne", Score: 1.0},
	}

	filtered := r.FilterByConstraints(candidates, []string{"végétarien"})
	require.Len(t, filtered, 2, "constraints demote, they never drop")
	assert.Equal(t, "a2", filtered[0].ArticleID)
	assert.InDelta(t, 1.1, filtered[0].Score, 1e-9)
	assert.InDelta(t, 0.9, filtered[1].Score, 1e-9)
}

func TestFilterByConstraintsNoConstraints(t *testing.T) {
	r := newRetriever(t)

	candidates := []domain.RetrievalCandidate{{ArticleID: "a1", Score: 0.5}}
	assert.Equal(t, candidates, r.FilterByConstraints(candidates, nil))
}
