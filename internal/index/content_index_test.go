package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahtein/internal/domain"
	"sahtein/internal/index"
	"sahtein/internal/normalize"
)

func makeArticle(id, title string, tags ...string) domain.Article {
	return domain.Article{
		ArticleID: id,
		Title:     title,
		URL:       "https://www.lorientlejour.com/article/" + id + "-x.html",
		Tags:      tags,
	}
}

func makeRecipe(id, name string, ingredients ...string) domain.StructuredRecipe {
	r := domain.StructuredRecipe{RecipeID: id, Name: name}
	for _, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, domain.Ingredient{Name: ing})
	}
	return r
}

func buildContentIndex(t *testing.T) *index.ContentIndex {
	t.Helper()

	ix := index.NewContentIndex(index.ContentIndexConfig{MaxFeatures: 5000}, normalize.NewIngredientExpander())
	ix.AddArticles([]domain.Article{
		makeArticle("a1", "Le hummus parfait de Beyrouth", "mezze", "libanais"),
		makeArticle("a2", "Tabboulé aux herbes fraîches", "salade", "libanais"),
		makeArticle("a3", "Kofta grillée au barbecue", "viande"),
	})
	soupe := makeRecipe("r3", "Soupe de lentilles", "lentilles", "citron", "cumin")
	soupe.Steps = []string{"Laisser mijoter les lentilles trente minutes."}
	ix.AddRecipes([]domain.StructuredRecipe{
		makeRecipe("r1", "Hummus bi tahini", "chickpeas", "tahini", "citron"),
		makeRecipe("r2", "Moutabbal d'aubergine", "aubergine", "tahini", "ail"),
		soupe,
	})
	require.NoError(t, ix.Build())
	return ix
}

func TestSearchRanksRelevantFirst(t *testing.T) {
	ix := buildContentIndex(t)

	hits := ix.Search("recette de hummus", 5)
	require.NotEmpty(t, hits)
	assert.Contains(t, []string{"olj_a1", "base2_r1"}, hits[0].Key(), "top hit should be a hummus document")

	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	ix := buildContentIndex(t)

	hits := ix.Search("citron tahini", 1)
	assert.Len(t, hits, 1)
}

func TestSearchByIngredientsKeepsDilutedCosineMatch(t *testing.T) {
	// A recipe carrying every query ingredient must come back even when a
	// long ingredient list dilutes its cosine score, because the overlap
	// ratio dominates the final score.
	r := makeRecipe("r1", "Balila épicée",
		"pois chiches", "cumin", "carotte", "céleri", "navet", "poireau",
		"panais", "laurier", "paprika", "coriandre", "sel")
	ix := index.NewContentIndex(index.ContentIndexConfig{MaxFeatures: 5000}, normalize.NewIngredientExpander())
	ix.AddRecipes([]domain.StructuredRecipe{r})
	ix.AddArticles([]domain.Article{
		makeArticle("a1", "Les pois chiches dans la cuisine du Levant", "légumineuses"),
		makeArticle("a2", "Voyage gourmand à Beyrouth", "reportage"),
	})
	require.NoError(t, ix.Build())

	hits := ix.SearchByIngredients([]string{"pois chiches"}, 10)
	require.NotEmpty(t, hits)
	assert.Equal(t, "r1", hits[0].RecipeID)
	assert.Greater(t, hits[0].Score, 0.4, "full overlap must clear the recipe scenario bar")
}

func TestSearchFindsRecipeBySteps(t *testing.T) {
	ix := buildContentIndex(t)

	hits := ix.Search("mijoter", 5)
	require.NotEmpty(t, hits)
	assert.Equal(t, "r3", hits[0].RecipeID, "cooking technique queries should match step text")
}

func TestSearchUnrelatedQuery(t *testing.T) {
	ix := buildContentIndex(t)

	assert.Empty(t, ix.Search("quantique relativité", 10))
}

func TestSearchByIngredientsCrossLanguage(t *testing.T) {
	ix := buildContentIndex(t)

	// Query in French, document ingredients in English: the equivalence
	// table must bridge them.
	hits := ix.SearchByIngredients([]string{"pois chiches", "tahini"}, 3)
	require.NotEmpty(t, hits)
	assert.Equal(t, "r1", hits[0].RecipeID)
	assert.Greater(t, hits[0].Score, 0.5)
}

func TestSearchByIngredientsOverlapDominates(t *testing.T) {
	ix := buildContentIndex(t)

	hits := ix.SearchByIngredients([]string{"aubergine", "tahini"}, 3)
	require.NotEmpty(t, hits)
	assert.Equal(t, "r2", hits[0].RecipeID)
}

func TestSearchByIngredientsEmptyQuery(t *testing.T) {
	ix := buildContentIndex(t)

	assert.Nil(t, ix.SearchByIngredients(nil, 3))
}

func TestSearchBeforeBuildReturnsNothing(t *testing.T) {
	ix := index.NewContentIndex(index.DefaultContentIndexConfig(), normalize.NewIngredientExpander())
	ix.AddArticles([]domain.Article{makeArticle("a1", "Le hummus parfait", "mezze")})

	assert.Empty(t, ix.Search("hummus", 5))
}

func TestContentIndexLen(t *testing.T) {
	ix := buildContentIndex(t)

	assert.Equal(t, 6, ix.Len())
}

func TestCandidateKeyBySource(t *testing.T) {
	ix := buildContentIndex(t)

	hits := ix.Search("tabbouleh herbes", 5)
	require.NotEmpty(t, hits)
	assert.Equal(t, domain.SourceArticles, hits[0].Source)
	assert.Equal(t, "olj_a2", hits[0].Key())
}
