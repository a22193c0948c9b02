package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahtein/internal/domain"
	"sahtein/internal/usecase/retrieval"
)

func makeCandidate(source domain.Source, id, content string, score float64) domain.RetrievalCandidate {
	c := domain.RetrievalCandidate{Source: source, Content: content, Score: score}
	if source == domain.SourceArticles {
		c.ArticleID = id
		c.Meta.ArticleID = id
	} else {
		c.RecipeID = id
		c.Meta.RecipeID = id
	}
	return c
}

func TestRerankLebaneseBoost(t *testing.T) {
	r := retrieval.NewReranker(5)

	candidates := []domain.RetrievalCandidate{
		makeCandidate(domain.SourceArticles, "a1", "ragout de legumes", 0.5),
		makeCandidate(domain.SourceArticles, "a2", "mezze libanais de beyrouth", 0.5),
	}

	reranked := r.Rerank(candidates, domain.QueryPlan{NeedType: domain.NeedSuggestions})
	require.Len(t, reranked, 2)
	assert.Equal(t, "a2", reranked[0].ArticleID)
	assert.InDelta(t, 0.55, reranked[0].Score, 1e-9)
	assert.InDelta(t, 0.5, reranked[1].Score, 1e-9)
}

func TestRerankPrimaryDishBoost(t *testing.T) {
	r := retrieval.NewReranker(5)

	candidates := []domain.RetrievalCandidate{
		makeCandidate(domain.SourceRecipes, "r1", "soupe de lentilles", 0.6),
		makeCandidate(domain.SourceRecipes, "r2", "hummus bi tahini", 0.5),
	}

	reranked := r.Rerank(candidates, domain.QueryPlan{
		NeedType:    domain.NeedRecipeByName,
		PrimaryDish: "houmous",
	})
	require.Len(t, reranked, 2)
	// 0.5 * 1.1 (tahini indicator) * 1.3 (dish) beats 0.6.
	assert.Equal(t, "r2", reranked[0].RecipeID)
}

func TestRerankSourcePreferenceByNeed(t *testing.T) {
	r := retrieval.NewReranker(5)

	candidates := []domain.RetrievalCandidate{
		makeCandidate(domain.SourceArticles, "a1", "plat du jour", 0.5),
		makeCandidate(domain.SourceRecipes, "r1", "plat du jour", 0.5),
	}

	byIngredients := r.Rerank(candidates, domain.QueryPlan{NeedType: domain.NeedRecipeByIngredients})
	assert.Equal(t, domain.SourceRecipes, byIngredients[0].Source)

	byName := r.Rerank(candidates, domain.QueryPlan{NeedType: domain.NeedRecipeByName})
	assert.Equal(t, domain.SourceArticles, byName[0].Source)
}

func TestRerankIngredientOverlap(t *testing.T) {
	r := retrieval.NewReranker(5)

	full := makeCandidate(domain.SourceRecipes, "r1", "salade fraiche", 0.5)
	full.Meta.Ingredients = []string{"persil", "tomate"}
	none := makeCandidate(domain.SourceRecipes, "r2", "dessert sucre", 0.5)

	reranked := r.Rerank([]domain.RetrievalCandidate{none, full}, domain.QueryPlan{
		NeedType:    domain.NeedRecipeByIngredients,
		Ingredients: []string{"persil", "tomate"},
	})
	require.Len(t, reranked, 2)
	assert.Equal(t, "r1", reranked[0].RecipeID)
	// 0.5 * (1 + 1.0*0.2) * 1.15 source preference.
	assert.InDelta(t, 0.5*1.2*1.15, reranked[0].Score, 1e-9)
}

func TestRerankCutsToTopK(t *testing.T) {
	r := retrieval.NewReranker(1)

	candidates := []domain.RetrievalCandidate{
		makeCandidate(domain.SourceArticles, "a1", "x", 0.9),
		makeCandidate(domain.SourceArticles, "a2", "y", 0.1),
	}
	assert.Len(t, r.Rerank(candidates, domain.QueryPlan{NeedType: domain.NeedSuggestions}), 1)
}

func TestRerankEmptyInput(t *testing.T) {
	r := retrieval.NewReranker(3)
	assert.Nil(t, r.Rerank(nil, domain.QueryPlan{}))
}

func TestDeduplicate(t *testing.T) {
	candidates := []domain.RetrievalCandidate{
		makeCandidate(domain.SourceArticles, "a1", "x", 0.9),
		makeCandidate(domain.SourceArticles, "a1", "x", 0.8),
		makeCandidate(domain.SourceRecipes, "a1", "x", 0.7),
	}

	deduped := retrieval.Deduplicate(candidates)
	require.Len(t, deduped, 2, "same item from both corpora counts twice")
	assert.InDelta(t, 0.9, deduped[0].Score, 1e-9, "first occurrence wins")
}

func TestDiversify(t *testing.T) {
	candidates := []domain.RetrievalCandidate{
		makeCandidate(domain.SourceArticles, "a1", "x", 0.9),
		makeCandidate(domain.SourceArticles, "a2", "x", 0.8),
		makeCandidate(domain.SourceArticles, "a3", "x", 0.7),
		makeCandidate(domain.SourceRecipes, "r1", "x", 0.6),
	}

	diversified := retrieval.Diversify(candidates, 2)
	require.Len(t, diversified, 3)
	assert.Equal(t, "a1", diversified[0].ArticleID)
	assert.Equal(t, "a2", diversified[1].ArticleID)
	assert.Equal(t, "r1", diversified[2].RecipeID)
}
